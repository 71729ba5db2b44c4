package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/crochet_store/internal/docstore"
	"github.com/Skotchmaster/crochet_store/internal/order"
)

const DefaultCollection = "orders"

var ErrNotFound = docstore.ErrNotFound

type OrderRepo struct {
	Store      docstore.Store
	Collection string
}

func NewOrderRepo(store docstore.Store, collection string) *OrderRepo {
	if collection == "" {
		collection = DefaultCollection
	}
	return &OrderRepo{Store: store, Collection: collection}
}

func (r *OrderRepo) listQuery() docstore.Query {
	return docstore.Query{Collection: r.Collection, OrderBy: "createdAt", Direction: docstore.Desc}
}

func (r *OrderRepo) Create(ctx context.Context, o order.Order) (string, error) {
	id, err := r.Store.Create(ctx, r.Collection, orderDocument(o))
	if err != nil {
		return "", &order.PersistenceError{Op: "create", Err: err}
	}
	return id, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status order.Status, at time.Time) error {
	err := r.Store.Update(ctx, r.Collection, id, map[string]any{
		"status":    string(status),
		"updatedAt": at,
	})
	if err != nil {
		return &order.PersistenceError{Op: "update", Err: err}
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if err := r.Store.Delete(ctx, r.Collection, id); err != nil {
		return &order.PersistenceError{Op: "delete", Err: err}
	}
	return nil
}

// List returns every order, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]order.Order, error) {
	docs, err := r.Store.Query(ctx, r.listQuery())
	if err != nil {
		return nil, &order.PersistenceError{Op: "list", Err: err}
	}
	return decodeOrders(docs)
}

// Get reads a single order without listing the collection.
func (r *OrderRepo) Get(ctx context.Context, id string) (order.Order, error) {
	d, err := r.Store.Get(ctx, r.Collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return order.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return order.Order{}, &order.PersistenceError{Op: "get", Err: err}
	}
	orders, err := decodeOrders([]docstore.Document{d})
	if err != nil {
		return order.Order{}, err
	}
	return orders[0], nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func decodeOrders(docs []docstore.Document) ([]order.Order, error) {
	out := make([]order.Order, 0, len(docs))
	for _, d := range docs {
		var o order.Order
		if err := docstore.Decode(d, &o); err != nil {
			return nil, &order.PersistenceError{Op: "decode", Err: err}
		}
		o.ID = d.ID
		out = append(out, o)
	}
	return out, nil
}

func orderDocument(o order.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"id":         it.ID,
			"name":       it.Name,
			"price":      it.Price,
			"quantity":   it.Quantity,
			"totalPrice": it.TotalPrice,
		})
	}

	customer := map[string]any{
		"fullName": o.Customer.FullName,
		"email":    o.Customer.Email,
		"phone":    o.Customer.Phone,
		"address":  o.Customer.Address,
	}
	if o.Customer.City != "" {
		customer["city"] = o.Customer.City
	}
	if o.Customer.PostalCode != "" {
		customer["postalCode"] = o.Customer.PostalCode
	}

	payment := map[string]any{
		"method": string(o.Payment.Method),
		"total":  o.Payment.Total,
	}
	if o.Payment.ScreenshotURL != "" {
		payment["screenshotUrl"] = o.Payment.ScreenshotURL
	}

	return map[string]any{
		"customer":  customer,
		"items":     items,
		"payment":   payment,
		"status":    string(o.Status),
		"createdAt": o.CreatedAt,
	}
}
