package events

import "time"

const (
	TypeOrderCreated       = "order_created"
	TypeOrderStatusUpdated = "order_status_updated"
	TypeOrderDeleted       = "order_deleted"
	TypeCartItemAdded      = "cart_item_added"
)

type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status,omitempty"`
	Total     int64     `json:"total,omitempty"`
	Method    string    `json:"payment_method,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type CartEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
