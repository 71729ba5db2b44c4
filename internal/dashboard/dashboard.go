package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Skotchmaster/crochet_store/internal/events"
	"github.com/Skotchmaster/crochet_store/internal/order"
)

var ErrNotFound = errors.New("order not found")

// Feed is a cancellable push source of the full order list.
type Feed interface {
	Start(ctx context.Context, onData func([]order.Order), onError func(error)) error
	Stop()
}

type Orders interface {
	List(ctx context.Context) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id string, status order.Status, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type Deps struct {
	Feed   Feed
	Orders Orders
	Events events.Publisher
	Log    *slog.Logger
	Now    func() time.Time
}

// Dashboard mirrors the order collection in memory. Every feed delivery
// replaces the list; admin writes go to the store and are applied locally.
type Dashboard struct {
	feed   Feed
	orders Orders
	events events.Publisher
	log    *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	baseCtx context.Context
	list    []order.Order
	gen     uint64
	err     error

	wmu      sync.Mutex
	watchers map[uint64]func()
	nextW    uint64
}

func New(d Deps) *Dashboard {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Dashboard{
		feed:     d.Feed,
		orders:   d.Orders,
		events:   d.Events,
		log:      d.Log.With("component", "dashboard"),
		now:      d.Now,
		baseCtx:  context.Background(),
		watchers: make(map[uint64]func()),
	}
}

// Start opens the live subscription. ctx bounds its lifetime.
func (d *Dashboard) Start(ctx context.Context) error {
	d.mu.Lock()
	d.baseCtx = ctx
	d.mu.Unlock()

	if err := d.feed.Start(ctx, d.onData, d.onError); err != nil {
		d.onError(err)
		return &order.SubscriptionError{Err: err}
	}
	return nil
}

func (d *Dashboard) Stop() {
	d.feed.Stop()
}

func (d *Dashboard) onData(list []order.Order) {
	d.mu.Lock()
	d.list = list
	d.gen++
	d.err = nil
	d.mu.Unlock()
	d.notify()
}

// onError records a retriable error and falls back to a one-shot fetch.
func (d *Dashboard) onError(err error) {
	d.log.Error("order_subscription_error", "error", err)

	d.mu.Lock()
	d.err = &order.SubscriptionError{Err: err}
	ctx := d.baseCtx
	d.mu.Unlock()

	list, ferr := d.orders.List(ctx)
	if ferr != nil {
		d.log.Error("order_fallback_fetch_error", "error", ferr)
	} else {
		d.mu.Lock()
		d.list = list
		d.gen++
		d.mu.Unlock()
	}
	d.notify()
}

// Refresh is the manual retry: refetch now and reopen the subscription.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.feed.Stop()

	list, err := d.orders.List(ctx)
	if err != nil {
		d.mu.Lock()
		d.err = err
		d.mu.Unlock()
		d.notify()
		return err
	}

	d.mu.Lock()
	d.list = list
	d.gen++
	d.err = nil
	base := d.baseCtx
	d.mu.Unlock()
	d.notify()

	return d.Start(base)
}

func (d *Dashboard) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

func (d *Dashboard) Orders() []order.Order {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]order.Order, len(d.list))
	copy(out, d.list)
	return out
}

func (d *Dashboard) Get(id string) (order.Order, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i := d.indexLocked(id); i >= 0 {
		return d.list[i], true
	}
	return order.Order{}, false
}

func (d *Dashboard) Filter(status, term string) []order.Order {
	return order.Filter(d.Orders(), status, term)
}

func (d *Dashboard) Stats() order.Stats {
	return order.ComputeStats(d.Orders())
}

func (d *Dashboard) indexLocked(id string) int {
	for i := range d.list {
		if d.list[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdateStatus applies the change locally, then writes it. A failed write
// rolls the local change back unless a newer delivery already replaced it.
// Any status may follow any other.
func (d *Dashboard) UpdateStatus(ctx context.Context, id, status string) (order.Order, error) {
	st, err := order.ParseStatus(status)
	if err != nil {
		return order.Order{}, err
	}
	at := d.now()

	d.mu.Lock()
	i := d.indexLocked(id)
	if i < 0 {
		d.mu.Unlock()
		return order.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	prev := d.list[i]
	next := prev
	next.Status = st
	next.UpdatedAt = &at
	d.list[i] = next
	gen := d.gen
	d.mu.Unlock()
	d.notify()

	if err := d.orders.UpdateStatus(ctx, id, st, at); err != nil {
		d.mu.Lock()
		if d.gen == gen {
			if j := d.indexLocked(id); j >= 0 {
				d.list[j] = prev
			}
		}
		d.mu.Unlock()
		d.notify()
		return order.Order{}, err
	}

	if err := d.events.PublishEvent(ctx, events.TopicOrders, id, events.OrderEvent{
		Type:      events.TypeOrderStatusUpdated,
		OrderID:   id,
		Status:    string(st),
		Timestamp: at,
	}); err != nil {
		d.log.Error("publish_order_status_error", "order_id", id, "error", err)
	}
	return next, nil
}

func (d *Dashboard) DeleteOrder(ctx context.Context, id string) error {
	if err := d.orders.Delete(ctx, id); err != nil {
		return err
	}

	d.mu.Lock()
	if i := d.indexLocked(id); i >= 0 {
		d.list = append(d.list[:i:i], d.list[i+1:]...)
	}
	d.mu.Unlock()
	d.notify()

	if err := d.events.PublishEvent(ctx, events.TopicOrders, id, events.OrderEvent{
		Type:      events.TypeOrderDeleted,
		OrderID:   id,
		Timestamp: d.now(),
	}); err != nil {
		d.log.Error("publish_order_deleted_error", "order_id", id, "error", err)
	}
	return nil
}

// Watch calls fn after every change to the list or error state.
// fn runs on the notifying goroutine and must not block.
func (d *Dashboard) Watch(fn func()) (cancel func()) {
	d.wmu.Lock()
	id := d.nextW
	d.nextW++
	d.watchers[id] = fn
	d.wmu.Unlock()

	return func() {
		d.wmu.Lock()
		delete(d.watchers, id)
		d.wmu.Unlock()
	}
}

func (d *Dashboard) notify() {
	d.wmu.Lock()
	fns := make([]func(), 0, len(d.watchers))
	for _, fn := range d.watchers {
		fns = append(fns, fn)
	}
	d.wmu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
