package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/cart"
	"github.com/Skotchmaster/crochet_store/internal/catalog"
	"github.com/Skotchmaster/crochet_store/internal/events"
	"github.com/Skotchmaster/crochet_store/internal/favorites"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	sessionmw "github.com/Skotchmaster/crochet_store/internal/middleware/session"
)

type CartHTTP struct {
	Catalog *catalog.Store
	Events  events.Publisher
}

type addToCartRequest struct {
	ProductID int `json:"product_id"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func summary(c echo.Context) cart.Summary {
	var s cart.Summary
	sessionmw.Get(c).Do(func(ct *cart.Cart, _ *favorites.Set) {
		s = ct.Summary()
	})
	return s
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, summary(c))
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, ok := h.Catalog.Get(req.ProductID)
	if !ok {
		l.Warn("add_to_cart_error", "status", 404, "reason", "product not found", "product_id", req.ProductID)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	sess := sessionmw.Get(c)
	var (
		s   cart.Summary
		qty int
	)
	sess.Do(func(ct *cart.Cart, _ *favorites.Set) {
		ct.AddItem(p)
		qty = ct.Quantity(p.ID)
		s = ct.Summary()
	})

	if h.Events != nil {
		if err := h.Events.PublishEvent(ctx, events.TopicCart, sess.ID, events.CartEvent{
			Type:      events.TypeCartItemAdded,
			SessionID: sess.ID,
			ProductID: p.ID,
			Quantity:  qty,
			Timestamp: time.Now().UTC(),
		}); err != nil {
			l.Error("publish_cart_event_error", "error", err)
		}
	}

	l.Info("add_to_cart_success", "product_id", p.ID, "quantity", qty)
	return c.JSON(http.StatusOK, s)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.update_quantity")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil || req.Quantity == nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "quantity is required", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "quantity is required")
	}

	var s cart.Summary
	sessionmw.Get(c).Do(func(ct *cart.Cart, _ *favorites.Set) {
		ct.UpdateQuantity(id, *req.Quantity)
		s = ct.Summary()
	})
	return c.JSON(http.StatusOK, s)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.remove_item")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("remove_item_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var s cart.Summary
	sessionmw.Get(c).Do(func(ct *cart.Cart, _ *favorites.Set) {
		ct.RemoveItem(id)
		s = ct.Summary()
	})
	return c.JSON(http.StatusOK, s)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	sessionmw.Get(c).Do(func(ct *cart.Cart, _ *favorites.Set) {
		ct.Clear()
	})
	return c.NoContent(http.StatusNoContent)
}
