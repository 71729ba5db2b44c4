package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/cart"
	"github.com/Skotchmaster/crochet_store/internal/catalog"
	"github.com/Skotchmaster/crochet_store/internal/favorites"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	sessionmw "github.com/Skotchmaster/crochet_store/internal/middleware/session"
)

type FavoritesHTTP struct {
	Catalog *catalog.Store
}

func (h *FavoritesHTTP) GetFavorites(c echo.Context) error {
	var ids []int
	sessionmw.Get(c).Do(func(_ *cart.Cart, f *favorites.Set) {
		ids = f.IDs()
	})

	products := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := h.Catalog.Get(id); ok {
			products = append(products, p)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"ids": ids, "products": products})
}

func (h *FavoritesHTTP) ToggleFavorite(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "favorites.toggle")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("toggle_favorite_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	if _, ok := h.Catalog.Get(id); !ok {
		l.Warn("toggle_favorite_error", "status", 404, "reason", "product not found", "product_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	var on bool
	sessionmw.Get(c).Do(func(_ *cart.Cart, f *favorites.Set) {
		on = f.Toggle(id)
	})
	return c.JSON(http.StatusOK, map[string]any{"id": id, "favorite": on})
}
