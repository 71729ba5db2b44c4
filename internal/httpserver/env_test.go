package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/crochet_store/internal/auth"
	"github.com/Skotchmaster/crochet_store/internal/blobstore"
	"github.com/Skotchmaster/crochet_store/internal/catalog"
	"github.com/Skotchmaster/crochet_store/internal/checkout"
	"github.com/Skotchmaster/crochet_store/internal/dashboard"
	"github.com/Skotchmaster/crochet_store/internal/db"
	"github.com/Skotchmaster/crochet_store/internal/docstore"
	"github.com/Skotchmaster/crochet_store/internal/hash"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	middleware "github.com/Skotchmaster/crochet_store/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/crochet_store/internal/middleware/logging"
	sessionmw "github.com/Skotchmaster/crochet_store/internal/middleware/session"
	"github.com/Skotchmaster/crochet_store/internal/order"
	"github.com/Skotchmaster/crochet_store/internal/repo"
	"github.com/Skotchmaster/crochet_store/internal/search"
	"github.com/Skotchmaster/crochet_store/internal/session"
)

const (
	adminIdentifier = "owner@crochet.pk"
	adminPassword   = "s3cret-yarn"
	shippingFee     = 200
)

type published struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *recordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}

type testEnv struct {
	E         *echo.Echo
	Catalog   *catalog.Store
	Orders    *repo.OrderRepo
	Dashboard *dashboard.Dashboard
	Events    *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	store, err := docstore.NewGorm(gdb)
	require.NoError(t, err)
	orders := repo.NewOrderRepo(store, "")

	uploads := t.TempDir()
	blobs, err := blobstore.NewDisk(uploads, "/uploads")
	require.NoError(t, err)

	pub := &recordingPublisher{}
	log := logging.NewWithWriter(io.Discard, "error")

	dash := dashboard.New(dashboard.Deps{Feed: orders.Feed(), Orders: orders, Events: pub, Log: log})
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, dash.Start(ctx))
	t.Cleanup(func() {
		dash.Stop()
		cancel()
	})

	pwHash, err := hash.HashPassword(adminPassword)
	require.NoError(t, err)
	authn := auth.NewLocal(adminIdentifier, pwHash, []byte("test-secret"), time.Hour)

	cat := catalog.Default()

	e := echo.New()
	e.Use(loggingmw.RequestLogger(log))
	Register(e, &Deps{
		CatalogHandler:   &CatalogHTTP{Store: cat, Searcher: search.CatalogSearcher{Store: cat}},
		CartHandler:      &CartHTTP{Catalog: cat, Events: pub},
		FavoritesHandler: &FavoritesHTTP{Catalog: cat},
		CheckoutHandler: &CheckoutHTTP{Service: &checkout.Service{
			Orders:      orders,
			Blobs:       blobs,
			Events:      pub,
			ShippingFee: shippingFee,
		}},
		AdminHandler: &AdminHTTP{Auth: authn, Dashboard: dash},
		Sessions:     session.NewMemoryStore(time.Hour),
		SessionTTL:   time.Hour,
		AdminMW:      middleware.NewAdminMiddleware(authn),
		UploadDir:    uploads,
	})

	return &testEnv{E: e, Catalog: cat, Orders: orders, Dashboard: dash, Events: pub}
}

func (env *testEnv) serve(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, ck := range cookies {
		if ck != nil {
			req.AddCookie(ck)
		}
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return env.serve(req, cookies...)
}

func (env *testEnv) doAdminRequest(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+env.login(t))
	return env.serve(req)
}

func (env *testEnv) login(t *testing.T) string {
	t.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"identifier": adminIdentifier,
		"password":   adminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// newSession returns the cookie issued on a first cart visit.
func (env *testEnv) newSession(t *testing.T) *http.Cookie {
	t.Helper()
	rec := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return findCookie(t, rec, sessionmw.CookieName)
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func multipartCheckout(t *testing.T, fields map[string]string, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if data != nil {
		fw, err := w.CreateFormFile(screenshotField, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func validForm(method string) map[string]string {
	return map[string]string{
		"fullName":      "Ayesha Khan",
		"email":         "ayesha@example.pk",
		"phone":         "0300-1234567",
		"address":       "12 Garden Road",
		"city":          "Lahore",
		"postalCode":    "54000",
		"paymentMethod": method,
	}
}

// placeOrder fills a fresh cart and checks out with cash on delivery.
func (env *testEnv) placeOrder(t *testing.T, productIDs ...int) order.Order {
	t.Helper()
	ck := env.newSession(t)
	for _, id := range productIDs {
		rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": id}, ck)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", validForm("cod"), ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	return o
}
