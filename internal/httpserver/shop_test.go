package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/crochet_store/internal/cart"
	"github.com/Skotchmaster/crochet_store/internal/catalog"
	"github.com/Skotchmaster/crochet_store/internal/events"
	"github.com/Skotchmaster/crochet_store/internal/order"
	"github.com/Skotchmaster/crochet_store/internal/util"
)

type productsPage struct {
	Data []catalog.Product `json:"data"`
	Meta struct {
		Page       int   `json:"page"`
		Size       int   `json:"size"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
		HasPrev    bool  `json:"has_prev"`
		HasNext    bool  `json:"has_next"`
	} `json:"meta"`
}

func TestGetProducts(t *testing.T) {
	env := newTestEnv(t)
	plush := env.Catalog.ByCategory("plush")
	require.Greater(t, len(plush), 2)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products?category=Plush&page=1&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productsPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.EqualValues(t, len(plush), resp.Meta.Total)
	require.Equal(t, 2, resp.Meta.Size)
	require.False(t, resp.Meta.HasPrev)
	require.True(t, resp.Meta.HasNext)
	for _, p := range resp.Data {
		require.Equal(t, "Plush", p.Category)
	}
}

func TestGetProductsPageOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		page     string
		wantPage int
	}{
		{"max int64", "9223372036854775807", util.MaxPage},
		{"past the end", "50", 50},
		{"negative", "-9223372036854775808", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doJSONRequest(http.MethodGet, "/api/v1/products?page="+tt.page, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp productsPage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tt.wantPage, resp.Meta.Page)
			require.EqualValues(t, len(env.Catalog.All()), resp.Meta.Total)
			if tt.wantPage > 1 {
				require.Empty(t, resp.Data)
				require.False(t, resp.Meta.HasNext)
			}
		})
	}
}

func TestGetProductsSearchInCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products?q=bunny&category=keychains", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productsPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, p := range resp.Data {
		require.Equal(t, "Keychains", p.Category)
		require.Contains(t, strings.ToLower(p.Name), "bunny")
	}
}

func TestGetProductsSearch(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products?q=bunny", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productsPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	for _, p := range resp.Data {
		require.Contains(t, strings.ToLower(p.Name), "bunny")
	}
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/api/v1/products/2", http.StatusOK},
		{"missing", "/api/v1/products/9999", http.StatusNotFound},
		{"not a number", "/api/v1/products/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doJSONRequest(http.MethodGet, tt.path, nil)
			require.Equal(t, tt.want, rec.Code)
		})
	}

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products/2", nil)
	var p catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "Amigurumi Bunny", p.Name)
}

func TestGetCategories(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cats []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Equal(t, env.Catalog.Categories(), cats)
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	ck := env.newSession(t)
	p1, _ := env.Catalog.Get(1)
	p2, _ := env.Catalog.Get(2)

	add := func(id int) cart.Summary {
		rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": id}, ck)
		require.Equal(t, http.StatusOK, rec.Code)
		var s cart.Summary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		return s
	}

	add(1)
	s := add(1)
	require.True(t, s.ItemAdded)
	require.Len(t, s.Items, 1)
	require.Equal(t, 2, s.Items[0].Quantity)

	s = add(2)
	require.Equal(t, 3, s.TotalItems)
	require.Equal(t, 2*p1.Price+p2.Price, s.TotalPrice)

	rec := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/items/1", map[string]int{"quantity": 5}, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	require.Equal(t, 6, s.TotalItems)

	rec = env.doJSONRequest(http.MethodPatch, "/api/v1/cart/items/2", map[string]int{"quantity": 0}, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	require.Len(t, s.Items, 1)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/cart/items/1", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	require.Empty(t, s.Items)
	require.Zero(t, s.TotalPrice)

	topics := env.Events.Topics()
	require.Len(t, topics, 3)
	for _, topic := range topics {
		require.Equal(t, events.TopicCart, topic)
	}
}

func TestCartErrors(t *testing.T) {
	env := newTestEnv(t)
	ck := env.newSession(t)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 9999}, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSONRequest(http.MethodPatch, "/api/v1/cart/items/1", map[string]any{}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/cart/items/x", nil, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartIsPerSession(t *testing.T) {
	env := newTestEnv(t)
	a := env.newSession(t)
	b := env.newSession(t)
	require.NotEqual(t, a.Value, b.Value)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 3}, a)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, b)
	var s cart.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	require.Empty(t, s.Items)
}

func TestFavoritesToggle(t *testing.T) {
	env := newTestEnv(t)
	ck := env.newSession(t)

	toggle := func(id int) bool {
		rec := env.doJSONRequest(http.MethodPost, "/api/v1/favorites/"+strconv.Itoa(id)+"/toggle", nil, ck)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Favorite bool `json:"favorite"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Favorite
	}

	require.True(t, toggle(4))
	require.True(t, toggle(2))
	require.False(t, toggle(4))

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/favorites", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		IDs      []int             `json:"ids"`
		Products []catalog.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []int{2}, resp.IDs)
	require.Len(t, resp.Products, 1)

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/favorites/9999/toggle", nil, ck)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutCashOnDelivery(t *testing.T) {
	env := newTestEnv(t)
	p1, _ := env.Catalog.Get(1)
	p3, _ := env.Catalog.Get(3)

	o := env.placeOrder(t, 1, 1, 3)

	require.NotEmpty(t, o.ID)
	require.Equal(t, order.StatusPending, o.Status)
	require.Equal(t, order.MethodCOD, o.Payment.Method)
	require.Empty(t, o.Payment.ScreenshotURL)
	require.Equal(t, 2*p1.Price+p3.Price+shippingFee, o.Payment.Total)
	require.Len(t, o.Items, 2)

	stored, err := env.Orders.Get(t.Context(), o.ID)
	require.NoError(t, err)
	require.Equal(t, o.Payment.Total, stored.Payment.Total)
	require.Equal(t, "Ayesha Khan", stored.Customer.FullName)
}

func TestCheckoutClearsCart(t *testing.T) {
	env := newTestEnv(t)
	ck := env.newSession(t)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 5}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/checkout", validForm("cod"), ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ck)
	var s cart.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	require.Empty(t, s.Items)
}

func TestCheckoutWithScreenshot(t *testing.T) {
	env := newTestEnv(t)
	ck := env.newSession(t)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 2}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	rec = env.serve(multipartCheckout(t, validForm("easypaisa"), "receipt.png", png), ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	require.Equal(t, order.MethodEasyPaisa, o.Payment.Method)
	require.True(t, strings.HasPrefix(o.Payment.ScreenshotURL, "/uploads/payment-screenshots/"), o.Payment.ScreenshotURL)
	require.True(t, strings.HasSuffix(o.Payment.ScreenshotURL, "-receipt.png"), o.Payment.ScreenshotURL)

	rec = env.doJSONRequest(http.MethodGet, o.Payment.ScreenshotURL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, png, rec.Body.Bytes())
}

func TestCheckoutValidation(t *testing.T) {
	env := newTestEnv(t)

	badPhone := validForm("cod")
	badPhone["phone"] = "12345"
	missingName := validForm("cod")
	missingName["fullName"] = "  "
	badMethod := validForm("crypto")

	tests := []struct {
		name      string
		form      map[string]string
		file      []byte
		fillCart  bool
		wantField string
	}{
		{"empty cart", validForm("cod"), nil, false, "cart"},
		{"bad phone", badPhone, nil, true, "phone"},
		{"blank name", missingName, nil, true, "fullName"},
		{"unknown method", badMethod, nil, true, "paymentMethod"},
		{"proof missing", validForm("bank"), nil, true, "paymentScreenshot"},
		{"proof not an image", validForm("sadapay"), []byte("plain text, not an image"), true, "paymentScreenshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ck := env.newSession(t)
			if tt.fillCart {
				rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 1}, ck)
				require.Equal(t, http.StatusOK, rec.Code)
			}

			rec := env.serve(multipartCheckout(t, tt.form, "proof.txt", tt.file), ck)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var resp struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tt.wantField, resp.Field)
			require.NotEmpty(t, resp.Message)
		})
	}

	orders, err := env.Orders.List(t.Context())
	require.NoError(t, err)
	require.Empty(t, orders)
}
