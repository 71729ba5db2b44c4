package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skotchmaster/crochet_store/internal/order"
)

// View is one admin client's state: filter, search term and the open order.
type View struct {
	d *Dashboard

	mu       sync.Mutex
	status   string
	term     string
	selected string
}

func (d *Dashboard) NewView() *View {
	return &View{d: d, status: order.StatusAll}
}

func (v *View) SetFilter(status, term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if status == "" {
		status = order.StatusAll
	}
	v.status = status
	v.term = term
}

func (v *View) Select(id string) error {
	if _, ok := v.d.Get(id); !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	v.mu.Lock()
	v.selected = id
	v.mu.Unlock()
	return nil
}

func (v *View) Dismiss() {
	v.mu.Lock()
	v.selected = ""
	v.mu.Unlock()
}

func (v *View) SelectedID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

func (v *View) UpdateStatus(ctx context.Context, id, status string) (order.Order, error) {
	return v.d.UpdateStatus(ctx, id, status)
}

// Delete removes the order and closes its detail if it was open.
func (v *View) Delete(ctx context.Context, id string) error {
	if err := v.d.DeleteOrder(ctx, id); err != nil {
		return err
	}
	v.mu.Lock()
	if v.selected == id {
		v.selected = ""
	}
	v.mu.Unlock()
	return nil
}

type Snapshot struct {
	Orders    []order.Order `json:"orders"`
	Stats     order.Stats   `json:"stats"`
	Selected  *order.Order  `json:"selected,omitempty"`
	Status    string        `json:"status"`
	Search    string        `json:"search"`
	Error     string        `json:"error,omitempty"`
	Retriable bool          `json:"retriable"`
}

func (v *View) Render() Snapshot {
	v.mu.Lock()
	status, term, selected := v.status, v.term, v.selected
	v.mu.Unlock()

	all := v.d.Orders()
	snap := Snapshot{
		Orders: order.Filter(all, status, term),
		Stats:  order.ComputeStats(all),
		Status: status,
		Search: term,
	}
	if selected != "" {
		if o, ok := v.d.Get(selected); ok {
			snap.Selected = &o
		}
	}
	if err := v.d.Err(); err != nil {
		snap.Error = err.Error()
		snap.Retriable = true
	}
	return snap
}
