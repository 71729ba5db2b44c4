package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/crochet_store/internal/blobstore"
	"github.com/Skotchmaster/crochet_store/internal/cart"
	"github.com/Skotchmaster/crochet_store/internal/events"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	"github.com/Skotchmaster/crochet_store/internal/mail"
	"github.com/Skotchmaster/crochet_store/internal/order"
)

const (
	ScreenshotPrefix = "payment-screenshots"
)

type OrderCreator interface {
	Create(ctx context.Context, o order.Order) (string, error)
}

type Service struct {
	Orders      OrderCreator
	Blobs       blobstore.Store
	Events      events.Publisher
	Mailer      mail.Sender
	ShippingFee int64
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Submit turns the cart into a persisted pending order and clears the cart.
// Nothing remote is touched until the input is valid; a blob uploaded before
// a failed write stays in place.
func (s *Service) Submit(ctx context.Context, c *cart.Cart, form Form, shot *Screenshot) (order.Order, error) {
	l := logging.FromContext(ctx).With("component", "checkout")

	form = form.trimmed()
	if err := validateForm(form); err != nil {
		return order.Order{}, err
	}
	if c.Len() == 0 {
		return order.Order{}, &order.ValidationError{Field: "cart", Reason: "is empty"}
	}
	method, err := order.ParsePaymentMethod(form.PaymentMethod)
	if err != nil {
		return order.Order{}, err
	}
	if method.RequiresProof() {
		if err := validateScreenshot(shot); err != nil {
			return order.Order{}, err
		}
	}

	now := s.now()

	var screenshotURL string
	if method.RequiresProof() {
		key := fmt.Sprintf("%s/%d-%s", ScreenshotPrefix, now.UnixMilli(), baseName(shot.Filename))
		ref, err := s.Blobs.Upload(ctx, key, shot.Data, shot.ContentType)
		if err != nil {
			return order.Order{}, &order.UploadError{Key: key, Err: err}
		}
		screenshotURL, err = s.Blobs.URL(ctx, ref)
		if err != nil {
			return order.Order{}, &order.UploadError{Key: key, Err: err}
		}
	}

	o := s.buildOrder(c, form.Customer(), method, screenshotURL, now)

	id, err := s.Orders.Create(ctx, o)
	if err != nil {
		if screenshotURL != "" {
			l.Warn("orphaned_payment_screenshot", "url", screenshotURL, "error", err)
		}
		return order.Order{}, err
	}
	o.ID = id

	c.Clear()

	s.afterSubmit(ctx, o)
	return o, nil
}

func (s *Service) buildOrder(c *cart.Cart, cust order.Customer, method order.PaymentMethod, screenshotURL string, now time.Time) order.Order {
	lines := c.Lines()
	items := make([]order.Item, 0, len(lines))
	for _, ln := range lines {
		items = append(items, order.Item{
			ID:         ln.ID,
			Name:       ln.Name,
			Price:      ln.Price,
			Quantity:   ln.Quantity,
			TotalPrice: ln.Total(),
		})
	}

	return order.Order{
		Customer: cust,
		Items:    items,
		Payment: order.Payment{
			Method:        method,
			Total:         c.TotalPrice() + s.ShippingFee,
			ScreenshotURL: screenshotURL,
		},
		Status:    order.StatusPending,
		CreatedAt: now,
	}
}

// afterSubmit runs notifications that must not fail a committed order.
func (s *Service) afterSubmit(ctx context.Context, o order.Order) {
	l := logging.FromContext(ctx).With("component", "checkout", "order_id", o.ID)

	if s.Events != nil {
		err := s.Events.PublishEvent(ctx, events.TopicOrders, o.ID, events.OrderEvent{
			Type:      events.TypeOrderCreated,
			OrderID:   o.ID,
			Status:    string(o.Status),
			Total:     o.Payment.Total,
			Method:    string(o.Payment.Method),
			Timestamp: o.CreatedAt,
		})
		if err != nil {
			l.Error("publish_order_created_error", "error", err)
		}
	}

	if s.Mailer != nil {
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.Mailer.SendOrderConfirmation(mctx, o); err != nil {
			l.Error("order_confirmation_mail_error", "error", err)
		}
	}
}
