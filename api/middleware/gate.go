package middleware

import (
	"net/http"
	"strings"

	pkgauth "github.com/lucasbarrena/shoplane-backend/pkg/auth"
	"github.com/lucasbarrena/shoplane-backend/pkg/config"
	"github.com/lucasbarrena/shoplane-backend/pkg/enums"
	"github.com/lucasbarrena/shoplane-backend/pkg/logger"
)

// TokenCookieName is the browser cookie carrying the access token for
// page navigation.
const TokenCookieName = "shoplane_token"

const (
	adminPrefix    = "/admin"
	checkoutPrefix = "/checkout"
)

// PageGate guards browser page navigation. Admin pages require an ADMIN
// token, checkout pages any valid token. Failures redirect to the login
// page with the original path echoed as callbackUrl so the client can
// resume after signing in.
func PageGate(cfg config.JWTConfig, loginPath string, logg *logger.Logger) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = "/login"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			isAdmin := gatedPrefix(path, adminPrefix)
			isCheckout := gatedPrefix(path, checkoutPrefix)
			if !isAdmin && !isCheckout {
				next.ServeHTTP(w, r)
				return
			}

			redirect := func() {
				// callbackUrl stays unescaped so the client sees the
				// original path verbatim.
				http.Redirect(w, r, loginPath+"?callbackUrl="+path, http.StatusFound)
			}

			token := pageToken(r)
			if token == "" {
				redirect()
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "path", path), "gate.token_rejected")
				}
				redirect()
				return
			}

			if isAdmin && claims.Role != enums.UserRoleAdmin {
				redirect()
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, string(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func gatedPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func pageToken(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return bearerToken(r)
}
