package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/dashboard"
	"github.com/Skotchmaster/crochet_store/internal/order"
	"github.com/Skotchmaster/crochet_store/internal/repo"
)

func validationError(l *slog.Logger, event string, verr *order.ValidationError) error {
	l.Warn(event, "status", 400, "reason", "validation failed", "field", verr.Field, "error", verr)
	return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
		"field":   verr.Field,
		"message": verr.Error(),
	})
}

func checkoutError(l *slog.Logger, err error) error {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		return validationError(l, "place_order_error", verr)
	case errors.Is(err, order.ErrUpload):
		l.Error("place_order_error", "status", 502, "reason", "screenshot upload failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "could not upload payment screenshot, please try again")
	case errors.Is(err, order.ErrPersistence):
		l.Error("place_order_error", "status", 502, "reason", "order write failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "could not place order, please try again")
	default:
		l.Error("place_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// orderError maps dashboard write failures for the admin handlers.
func orderError(l *slog.Logger, event string, err error) error {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		return validationError(l, event, verr)
	case errors.Is(err, dashboard.ErrNotFound), repo.IsNotFound(err):
		l.Warn(event, "status", 404, "reason", "order not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrPersistence):
		l.Error(event, "status", 502, "reason", "order store failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "order store unavailable, please try again")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
