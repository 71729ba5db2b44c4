package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/dashboard"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	"github.com/Skotchmaster/crochet_store/internal/order"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	wsPongWait   = 2 * wsPingPeriod
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// wsCommand is a message from the admin client.
type wsCommand struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Search string `json:"search,omitempty"`
}

type wsMessage struct {
	Type     string              `json:"type"`
	Snapshot *dashboard.Snapshot `json:"snapshot,omitempty"`
	Message  string              `json:"message,omitempty"`
}

func (h *AdminHTTP) apply(ctx context.Context, v *dashboard.View, cmd wsCommand) error {
	switch cmd.Type {
	case "filter":
		v.SetFilter(cmd.Status, cmd.Search)
	case "select":
		return v.Select(cmd.ID)
	case "dismiss":
		v.Dismiss()
	case "update_status":
		_, err := v.UpdateStatus(ctx, cmd.ID, cmd.Status)
		return err
	case "delete":
		return v.Delete(ctx, cmd.ID)
	case "refresh":
		return h.Dashboard.Refresh(ctx)
	default:
		return &order.ValidationError{Field: "type", Reason: "unknown command " + cmd.Type}
	}
	return nil
}

func commandError(err error) string {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, dashboard.ErrNotFound):
		return "order not found"
	case errors.Is(err, order.ErrPersistence):
		return "order store unavailable, please try again"
	default:
		return "internal error"
	}
}

// OrdersWS streams a dashboard snapshot after every change. The client steers
// its own view with commands; all writes happen on the handler goroutine.
func (h *AdminHTTP) OrdersWS(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders_ws")

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		l.Warn("ws_upgrade_error", "error", err)
		return nil
	}
	defer conn.Close()

	view := h.Dashboard.NewView()

	wake := make(chan struct{}, 1)
	wake <- struct{}{}
	poke := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
	stopWatch := h.Dashboard.Watch(poke)
	defer stopWatch()

	failures := make(chan string, 8)
	done := make(chan struct{})

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	go func() {
		defer close(done)
		for {
			var cmd wsCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					l.Warn("ws_read_error", "error", err)
				}
				return
			}
			if err := h.apply(ctx, view, cmd); err != nil {
				l.Warn("ws_command_error", "command", cmd.Type, "order_id", cmd.ID, "error", err)
				select {
				case failures <- commandError(err):
				default:
				}
			}
			poke()
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	write := func(m wsMessage) error {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(m)
	}

	for {
		select {
		case <-done:
			return nil
		case <-wake:
			snap := view.Render()
			if err := write(wsMessage{Type: "snapshot", Snapshot: &snap}); err != nil {
				return nil
			}
		case msg := <-failures:
			if err := write(wsMessage{Type: "error", Message: msg}); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return nil
			}
		}
	}
}

