package order

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s)}
}

type PaymentMethod string

const (
	MethodCOD       PaymentMethod = "cod"
	MethodBank      PaymentMethod = "bank"
	MethodSadaPay   PaymentMethod = "sadapay"
	MethodEasyPaisa PaymentMethod = "easypaisa"
)

var PaymentMethods = []PaymentMethod{MethodCOD, MethodBank, MethodSadaPay, MethodEasyPaisa}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range PaymentMethods {
		if m == known {
			return m, nil
		}
	}
	return "", &ValidationError{Field: "paymentMethod", Reason: fmt.Sprintf("unknown payment method %q", s)}
}

// RequiresProof reports whether a payment screenshot must accompany the order.
func (m PaymentMethod) RequiresProof() bool {
	return m != MethodCOD
}

type Customer struct {
	FullName   string `json:"fullName" firestore:"fullName"`
	Email      string `json:"email" firestore:"email"`
	Phone      string `json:"phone" firestore:"phone"`
	Address    string `json:"address" firestore:"address"`
	City       string `json:"city,omitempty" firestore:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty" firestore:"postalCode,omitempty"`
}

type Item struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
	TotalPrice int64  `json:"totalPrice"`
}

type Payment struct {
	Method        PaymentMethod `json:"method"`
	Total         int64         `json:"total"`
	ScreenshotURL string        `json:"screenshotUrl,omitempty"`
}

type Order struct {
	ID        string     `json:"id"`
	Customer  Customer   `json:"customer"`
	Items     []Item     `json:"items"`
	Payment   Payment    `json:"payment"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (o Order) ItemsTotal() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.TotalPrice
	}
	return sum
}
