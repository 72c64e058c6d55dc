package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-cart/api/validators"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

const (
	SessionHeader     = "X-Cart-Session"
	SessionCookieName = "cart_session"

	maxSessionIDLength = 128
)

// SessionOptions controls the cookie that carries the cart session.
type SessionOptions struct {
	CookieMaxAge time.Duration
	SecureCookie bool
}

// Session resolves the browsing session that owns the cart. The header wins
// over the cookie; a missing or malformed id is replaced by a fresh one that
// is echoed back in both the header and the cookie.
func Session(logg *logger.Logger, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, minted := resolveSessionID(r)

			w.Header().Set(SessionHeader, sessionID)
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(opts.CookieMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   opts.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
				if minted {
					logg.Debug(ctx, "session.minted")
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveSessionID(r *http.Request) (string, bool) {
	if id := validators.SanitizeString(r.Header.Get(SessionHeader), 0); id != "" {
		if validators.IsOpaqueID(id, maxSessionIDLength) {
			return id, false
		}
		return uuid.NewString(), true
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if validators.IsOpaqueID(cookie.Value, maxSessionIDLength) {
			return cookie.Value, false
		}
	}
	return uuid.NewString(), true
}
