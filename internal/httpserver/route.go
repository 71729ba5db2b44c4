package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/logging"
	middleware "github.com/Skotchmaster/crochet_store/internal/middleware/auth"
	"github.com/Skotchmaster/crochet_store/internal/middleware/csrf"
	sessionmw "github.com/Skotchmaster/crochet_store/internal/middleware/session"
	"github.com/Skotchmaster/crochet_store/internal/session"
)

type Deps struct {
	CatalogHandler   *CatalogHTTP
	CartHandler      *CartHTTP
	FavoritesHandler *FavoritesHTTP
	CheckoutHandler  *CheckoutHTTP
	AdminHandler     *AdminHTTP

	Sessions   session.Store
	SessionTTL time.Duration
	AdminMW    *middleware.AdminMiddleware
	CSRF       csrf.Config

	// UploadDir is served under /uploads when payment proof is kept on disk.
	UploadDir string
	Ready     func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Warn("not_ready", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	api := e.Group("/api/v1")

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	api.GET("/categories", d.CatalogHandler.GetCategories)

	shop := api.Group("", sessionmw.Attach(d.Sessions, d.SessionTTL))
	shop.GET("/cart", d.CartHandler.GetCart)
	shop.DELETE("/cart", d.CartHandler.ClearCart)
	shop.POST("/cart/items", d.CartHandler.AddToCart)
	shop.PATCH("/cart/items/:id", d.CartHandler.UpdateQuantity)
	shop.DELETE("/cart/items/:id", d.CartHandler.RemoveItem)
	shop.GET("/favorites", d.FavoritesHandler.GetFavorites)
	shop.POST("/favorites/:id/toggle", d.FavoritesHandler.ToggleFavorite)
	shop.POST("/checkout", d.CheckoutHandler.PlaceOrder)

	csrfCfg := d.CSRF
	csrfCfg.Skipper = middleware.AuthenticatedByBearer

	admin := api.Group("/admin")
	admin.POST("/login", d.AdminHandler.Login)

	authed := admin.Group("", d.AdminMW.RequireAdmin, csrf.Middleware(csrfCfg))
	authed.POST("/logout", d.AdminHandler.Logout)
	authed.GET("/me", d.AdminHandler.Me)

	orders := authed.Group("/orders")
	orders.GET("", d.AdminHandler.ListOrders)
	orders.GET("/stats", d.AdminHandler.GetStats)
	orders.GET("/export", d.AdminHandler.Export)
	orders.GET("/ws", d.AdminHandler.OrdersWS)
	orders.POST("/refresh", d.AdminHandler.Refresh)
	orders.GET("/:id", d.AdminHandler.GetOrder)
	orders.PATCH("/:id", d.AdminHandler.UpdateStatus)
	orders.DELETE("/:id", d.AdminHandler.DeleteOrder)
}
