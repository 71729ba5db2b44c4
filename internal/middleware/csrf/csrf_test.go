package csrf

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(cfg Config) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/x", ok)
	e.POST("/x", ok)
	return e
}

func TestSafeMethodIssuesToken(t *testing.T) {
	e := newServer(DefaultConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	assert.NotEmpty(t, token)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "XSRF-TOKEN="+token)
}

func TestUnsafeMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		origin string
		header string
		want   int
	}{
		{"matching token", "http://example.com", "tok", http.StatusNoContent},
		{"missing token", "http://example.com", "", http.StatusForbidden},
		{"wrong token", "http://example.com", "other", http.StatusForbidden},
		{"foreign origin", "http://evil.test", "tok", http.StatusForbidden},
		{"no origin", "", "tok", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newServer(DefaultConfig())

			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(""))
			req.Host = "example.com"
			req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSkipper(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Skipper = func(c echo.Context) bool { return c.Request().Header.Get("Authorization") != "" }
	e := newServer(cfg)

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
