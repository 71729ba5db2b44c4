package sessionmw

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crochet_store/internal/logging"
	"github.com/Skotchmaster/crochet_store/internal/session"
)

const (
	CookieName = "sessionID"
	contextKey = "session"
)

// Attach loads the visitor session named by the cookie, issuing a new one when
// absent, and saves it after the handler returns. The cookie expiry slides.
func Attach(store session.Store, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			var (
				sess  *session.Session
				fresh bool
				id    string
			)
			if ck, err := c.Cookie(CookieName); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					id = ck.Value
				}
			}

			if id != "" {
				s, err := store.Load(ctx, id)
				switch {
				case err == nil:
					sess = s
				case errors.Is(err, session.ErrNotFound):
				default:
					l.Error("session_load_error", "status", 500, "error", err)
					return echo.NewHTTPError(http.StatusInternalServerError, "cannot load session")
				}
			}

			// an expired or never-saved id keeps naming the visitor's session
			if sess == nil {
				if id == "" {
					id = uuid.NewString()
				}
				sess = session.New(id)
				fresh = true
			}
			c.SetCookie(&http.Cookie{
				Name:     CookieName,
				Value:    sess.ID,
				Path:     "/",
				Expires:  time.Now().Add(ttl),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			c.Set(contextKey, sess)
			err := next(c)

			// fresh sessions that were only read stay out of the store
			if fresh && sess.Empty() {
				return err
			}
			if saveErr := store.Save(ctx, sess); saveErr != nil {
				l.Error("session_save_error", "session_id", sess.ID, "error", saveErr)
			}
			return err
		}
	}
}

func Get(c echo.Context) *session.Session {
	s, _ := c.Get(contextKey).(*session.Session)
	return s
}
