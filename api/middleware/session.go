package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lendom/storefront-backend/pkg/logger"
)

const (
	// SessionCookieName carries the anonymous shopper identity; there are no
	// accounts, the cookie is the whole session.
	SessionCookieName = "lendom_session"

	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// Session assigns every request a shopper session: an existing cookie is
// reused, otherwise a fresh id is minted and set. The id lands in the request
// context and on the logger.
func Session(logg *logger.Logger, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
