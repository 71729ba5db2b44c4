package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/auth"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	"github.com/Skotchmaster/crochet_store/internal/tokens"
)

const (
	ContextAdmin  = "admin"
	ContextToken  = "admin_token"
	ContextBearer = "admin_bearer"
)

type AdminMiddleware struct {
	Auth auth.Authenticator
}

func NewAdminMiddleware(a auth.Authenticator) *AdminMiddleware {
	return &AdminMiddleware{Auth: a}
}

// TokenFromRequest prefers the admin cookie and falls back to a bearer header.
// bearer reports whether the token came from the header.
func TokenFromRequest(c echo.Context) (token string, bearer bool) {
	if ck, err := c.Cookie(tokens.AdminCookie); err == nil && ck.Value != "" {
		return ck.Value, false
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		if t := strings.TrimSpace(after); t != "" {
			return t, true
		}
	}
	return "", false
}

// AuthenticatedByBearer reports whether RequireAdmin accepted a header token.
// Such requests carry no ambient credentials and need no CSRF check.
func AuthenticatedByBearer(c echo.Context) bool {
	b, _ := c.Get(ContextBearer).(bool)
	return b
}

func (m *AdminMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context())

		token, bearer := TokenFromRequest(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing admin token")
		}

		claims, err := m.Auth.Verify(token)
		if err != nil {
			l.Warn("admin_auth_failed", "status", 401, "error", err)
			c.SetCookie(tokens.DeleteCookie(tokens.AdminCookie, "/"))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
		}

		c.Set(ContextAdmin, claims.Subject)
		c.Set(ContextToken, token)
		c.Set(ContextBearer, bearer)
		return next(c)
	}
}
