package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Skotchmaster/crochet_store/internal/order"
)

type Sender interface {
	SendOrderConfirmation(ctx context.Context, o order.Order) error
}

type SendGrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("Crochet Store", from),
	}
}

func (s *SendGrid) SendOrderConfirmation(ctx context.Context, o order.Order) error {
	msg := ConfirmationMessage(s.from, o)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func ConfirmationMessage(from *sgmail.Email, o order.Order) *sgmail.SGMailV3 {
	to := sgmail.NewEmail(o.Customer.FullName, o.Customer.Email)
	subject := fmt.Sprintf("Order %s received", o.ID)
	return sgmail.NewSingleEmail(from, subject, to, confirmationText(o), confirmationHTML(o))
}

func confirmationText(o order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order! We received it and will contact you at %s to confirm.\n\n", o.Customer.FullName, o.Customer.Phone)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%d x %s  Rs %d\n", it.Quantity, it.Name, it.TotalPrice)
	}
	fmt.Fprintf(&b, "\nTotal (incl. shipping): Rs %d\nPayment: %s\nShipping to: %s\n", o.Payment.Total, o.Payment.Method, o.Customer.Address)
	return b.String()
}

func confirmationHTML(o order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p><p>Thank you for your order! We received it and will contact you to confirm.</p><ul>", html.EscapeString(o.Customer.FullName))
	for _, it := range o.Items {
		fmt.Fprintf(&b, "<li>%d &times; %s &mdash; Rs %d</li>", it.Quantity, html.EscapeString(it.Name), it.TotalPrice)
	}
	fmt.Fprintf(&b, "</ul><p><strong>Total:</strong> Rs %d</p>", o.Payment.Total)
	return b.String()
}

type Nop struct{}

func (Nop) SendOrderConfirmation(context.Context, order.Order) error { return nil }
