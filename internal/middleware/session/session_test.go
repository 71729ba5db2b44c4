package sessionmw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/crochet_store/internal/cart"
	"github.com/Skotchmaster/crochet_store/internal/favorites"
	"github.com/Skotchmaster/crochet_store/internal/session"
)

func newServer(store session.Store) *echo.Echo {
	e := echo.New()
	g := e.Group("", Attach(store, time.Hour))
	g.GET("/read", func(c echo.Context) error {
		return c.String(http.StatusOK, Get(c).ID)
	})
	g.POST("/fav", func(c echo.Context) error {
		Get(c).Do(func(_ *cart.Cart, f *favorites.Set) { f.Toggle(1) })
		return c.String(http.StatusOK, Get(c).ID)
	})
	return e
}

func do(e *echo.Echo, method, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAttach_ReadOnlyVisitsAreNotStored(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	e := newServer(store)

	for i := 0; i < 100; i++ {
		rec := do(e, http.MethodGet, "/read", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEmpty(t, rec.Result().Cookies())
	}
	assert.Zero(t, store.Len())
}

func TestAttach_KeepsIssuedID(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	e := newServer(store)

	id := do(e, http.MethodGet, "/read", "").Body.String()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	rec := do(e, http.MethodPost, "/fav", id)
	require.Equal(t, id, rec.Body.String())
	require.Equal(t, 1, store.Len())

	sess, err := store.Load(t.Context(), id)
	require.NoError(t, err)
	assert.False(t, sess.Empty())
}

func TestAttach_RejectsMalformedID(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	e := newServer(store)

	rec := do(e, http.MethodPost, "/fav", "../../etc")
	id := rec.Body.String()
	assert.NotEqual(t, "../../etc", id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}
