package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/auth"
	"github.com/Skotchmaster/crochet_store/internal/dashboard"
	"github.com/Skotchmaster/crochet_store/internal/export"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	middleware "github.com/Skotchmaster/crochet_store/internal/middleware/auth"
	"github.com/Skotchmaster/crochet_store/internal/order"
	"github.com/Skotchmaster/crochet_store/internal/tokens"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHTTP struct {
	Auth      auth.Authenticator
	Dashboard *dashboard.Dashboard
}

type loginRequest struct {
	Identifier string `json:"identifier" form:"identifier"`
	Password   string `json:"password" form:"password"`
}

type updateStatusRequest struct {
	Status string `json:"status" form:"status"`
}

type ordersResponse struct {
	Orders    []order.Order `json:"orders"`
	Stats     order.Stats   `json:"stats"`
	Error     string        `json:"error,omitempty"`
	Retriable bool          `json:"retriable"`
}

func (h *AdminHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	grant, err := h.Auth.SignIn(ctx, req.Identifier, req.Password)
	switch {
	case errors.Is(err, auth.ErrValidation):
		l.Warn("login_error", "status", 400, "reason", "missing credentials", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "identifier and password are required")
	case errors.Is(err, auth.ErrInvalidCredentials):
		l.Warn("login_error", "status", 401, "reason", "invalid credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case err != nil:
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(tokens.CreateCookie(tokens.AdminCookie, grant.Token, "/", grant.ExpiresAt))

	l.Info("login_success", "identifier", grant.Identifier)
	return c.JSON(http.StatusOK, map[string]any{
		"identifier": grant.Identifier,
		"token":      grant.Token,
		"expires_at": grant.ExpiresAt,
	})
}

func (h *AdminHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.logout")

	token, _ := c.Get(middleware.ContextToken).(string)
	if err := h.Auth.SignOut(ctx, token); err != nil {
		l.Warn("logout_error", "error", err)
	}
	c.SetCookie(tokens.DeleteCookie(tokens.AdminCookie, "/"))

	l.Info("logout_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) Me(c echo.Context) error {
	identifier, _ := c.Get(middleware.ContextAdmin).(string)
	return c.JSON(http.StatusOK, map[string]string{
		"identifier": identifier,
		"state":      h.Auth.State(identifier).String(),
	})
}

func (h *AdminHTTP) listResponse(status, term string) ordersResponse {
	resp := ordersResponse{
		Orders: h.Dashboard.Filter(status, term),
		Stats:  h.Dashboard.Stats(),
	}
	if err := h.Dashboard.Err(); err != nil {
		resp.Error = err.Error()
		resp.Retriable = true
	}
	return resp
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	return c.JSON(http.StatusOK, h.listResponse(c.QueryParam("status"), c.QueryParam("q")))
}

func (h *AdminHTTP) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Dashboard.Stats())
}

func (h *AdminHTTP) GetOrder(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "admin.get_order")

	id := c.Param("id")
	o, ok := h.Dashboard.Get(id)
	if !ok {
		l.Warn("get_order_error", "status", 404, "reason", "order not found", "order_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *AdminHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_status")

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id := c.Param("id")
	o, err := h.Dashboard.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return orderError(l, "update_status_error", err)
	}

	l.Info("update_status_success", "order_id", id, "order_status", o.Status)
	return c.JSON(http.StatusOK, o)
}

func (h *AdminHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_order")

	id := c.Param("id")
	if err := h.Dashboard.DeleteOrder(ctx, id); err != nil {
		return orderError(l, "delete_order_error", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.refresh")

	if err := h.Dashboard.Refresh(ctx); err != nil {
		l.Error("refresh_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "could not load orders, please try again")
	}
	return c.JSON(http.StatusOK, h.listResponse(c.QueryParam("status"), c.QueryParam("q")))
}

func (h *AdminHTTP) Export(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "admin.export")

	orders := h.Dashboard.Filter(c.QueryParam("status"), c.QueryParam("q"))

	var buf bytes.Buffer
	if err := export.Orders(&buf, orders); err != nil {
		l.Error("export_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
	}

	name := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))

	l.Info("export_success", "orders", len(orders))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
