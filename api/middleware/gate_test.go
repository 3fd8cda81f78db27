package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/lucasbarrena/shoplane-backend/pkg/auth"
	"github.com/lucasbarrena/shoplane-backend/pkg/config"
	"github.com/lucasbarrena/shoplane-backend/pkg/enums"
)

var gateJWTConfig = config.JWTConfig{
	Secret:            "test-secret-test-secret-test-secr",
	Issuer:            "shoplane-test",
	ExpirationMinutes: 15,
}

func mintGateToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(gateJWTConfig, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func gateHandler(t *testing.T) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return PageGate(gateJWTConfig, "/login", nil)(next)
}

func TestGateRedirectsAnonymousAdminPage(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/admin/users/42/edit", nil)
	rec := httptest.NewRecorder()

	gateHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?callbackUrl=/admin/users/42/edit" {
		t.Fatalf("location = %q", loc)
	}
}

func TestGateRedirectsAnonymousCheckout(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	rec := httptest.NewRecorder()

	gateHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?callbackUrl=/checkout" {
		t.Fatalf("location = %q", loc)
	}
}

func TestGateAllowsCustomerIntoCheckout(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/checkout/review", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: mintGateToken(t, enums.UserRoleCustomer)})
	rec := httptest.NewRecorder()

	gateHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestGateBlocksCustomerFromAdmin(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: mintGateToken(t, enums.UserRoleCustomer)})
	rec := httptest.NewRecorder()

	gateHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?callbackUrl=/admin/orders" {
		t.Fatalf("location = %q", loc)
	}
}

func TestGateAllowsAdminIntoAdmin(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: mintGateToken(t, enums.UserRoleAdmin)})
	rec := httptest.NewRecorder()

	gateHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestGateRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()

	gateHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
}

func TestGateIgnoresUngatedPaths(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()

	gateHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestGateAcceptsBearerHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+mintGateToken(t, enums.UserRoleCustomer))
	rec := httptest.NewRecorder()

	gateHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestGateDoesNotTreatPrefixLookalikesAsGated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/administration", nil)
	rec := httptest.NewRecorder()

	gateHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
