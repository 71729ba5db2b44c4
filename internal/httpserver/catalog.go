package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/catalog"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	"github.com/Skotchmaster/crochet_store/internal/search"
	"github.com/Skotchmaster/crochet_store/internal/util"
)

type CatalogHTTP struct {
	Store    *catalog.Store
	Searcher search.Searcher
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	page := util.NormalizePage(util.ParseIntDefault(c.QueryParam("page"), 1))
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	category := c.QueryParam("category")

	var list []catalog.Product
	if q := c.QueryParam("q"); q != "" {
		found, err := h.Searcher.Search(ctx, q)
		if err != nil {
			l.Error("get_products_error", "status", 500, "reason", "search failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
		}
		list = catalog.InCategory(found, category)
	} else if category != "" {
		list = h.Store.ByCategory(category)
	} else {
		list = h.Store.All()
	}

	total, items := catalog.Page(list, offset, limit)

	l.Info("get_products_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "catalog.get_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	p, ok := h.Store.Get(id)
	if !ok {
		l.Warn("get_product_failed", "status", 404, "reason", "product not found", "product_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Categories())
}
