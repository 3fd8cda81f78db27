package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionCookieName identifies the anonymous browser session. Its value
// keys guest carts and shipping details in Redis.
const SessionCookieName = "shoplane_session"

const sessionCookieMaxAge = 60 * 60 * 24 * 30

// SessionCookie guarantees every request carries an anonymous session
// identifier, minting a cookie on first contact. The value flows into the
// context as the fallback cart owner for unauthenticated requests.
func SessionCookie() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var owner string
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				owner = cookie.Value
			} else {
				owner = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    owner,
					Path:     "/",
					MaxAge:   sessionCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithCartOwner(r.Context(), owner)))
		})
	}
}
