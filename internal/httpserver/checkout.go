package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/cart"
	"github.com/Skotchmaster/crochet_store/internal/checkout"
	"github.com/Skotchmaster/crochet_store/internal/favorites"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	sessionmw "github.com/Skotchmaster/crochet_store/internal/middleware/session"
	"github.com/Skotchmaster/crochet_store/internal/order"
)

const screenshotField = "paymentScreenshot"

type CheckoutHTTP struct {
	Service *checkout.Service
}

// readScreenshot returns nil when the request carries no file.
func readScreenshot(c echo.Context) (*checkout.Screenshot, error) {
	fh, err := c.FormFile(screenshotField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", screenshotField, err)
	}
	defer f.Close()

	// one byte over the limit is enough for the size check to reject it
	data, err := io.ReadAll(io.LimitReader(f, checkout.MaxScreenshotBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", screenshotField, err)
	}
	return &checkout.Screenshot{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

func (h *CheckoutHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")

	var form checkout.Form
	if err := c.Bind(&form); err != nil {
		l.Warn("place_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	shot, err := readScreenshot(c)
	if err != nil {
		l.Warn("place_order_error", "status", 400, "reason", "invalid payment screenshot", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment screenshot")
	}

	var placed order.Order
	err = sessionmw.Get(c).DoErr(func(ct *cart.Cart, _ *favorites.Set) error {
		o, err := h.Service.Submit(ctx, ct, form, shot)
		placed = o
		return err
	})
	if err != nil {
		return checkoutError(l, err)
	}

	l.Info("place_order_success", "order_id", placed.ID, "total", placed.Payment.Total, "method", placed.Payment.Method)
	return c.JSON(http.StatusCreated, placed)
}
