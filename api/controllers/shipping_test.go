package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lucasbarrena/shoplane-backend/api/middleware"
	shippingsvc "github.com/lucasbarrena/shoplane-backend/internal/shipping"
	"github.com/lucasbarrena/shoplane-backend/pkg/logger"
)

type stubShippingService struct {
	saved []shippingsvc.Details
}

func (s *stubShippingService) Save(ctx context.Context, owner string, details shippingsvc.Details) error {
	s.saved = append(s.saved, details)
	return nil
}

func (s *stubShippingService) Get(ctx context.Context, owner string) (shippingsvc.Details, error) {
	return shippingsvc.Details{}, nil
}

func (s *stubShippingService) Clear(ctx context.Context, owner string) error {
	return nil
}

const shippingBody = `{
	"userId": "spoofed-id",
	"firstName": "Ada",
	"lastName": "Lovelace",
	"email": "ada@example.com",
	"address": "1 Analytical Way",
	"city": "London",
	"state": "LDN",
	"postalCode": "E1 6AN",
	"country": "GB",
	"phone": "+44 20 0000 0000"
}`

func TestShippingSubmitStampsSessionUserID(t *testing.T) {
	t.Parallel()

	svc := &stubShippingService{}
	logg := logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
	handler := ShippingSubmit(svc, logg)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/shipping", strings.NewReader(shippingBody))
	r.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithUserID(r.Context(), "user-42")
	r = r.WithContext(middleware.WithCartOwner(ctx, "owner-1"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if len(svc.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(svc.saved))
	}
	if svc.saved[0].UserID != "user-42" {
		t.Fatalf("expected session user id, got %q", svc.saved[0].UserID)
	}
}

func TestShippingSubmitLeavesUserIDEmptyForAnonymous(t *testing.T) {
	t.Parallel()

	svc := &stubShippingService{}
	logg := logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
	handler := ShippingSubmit(svc, logg)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/shipping", strings.NewReader(shippingBody))
	r.Header.Set("Content-Type", "application/json")
	r = r.WithContext(middleware.WithCartOwner(r.Context(), "anon-session"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if len(svc.saved) != 1 || svc.saved[0].UserID != "" {
		t.Fatalf("expected empty user id for anonymous shopper, got %+v", svc.saved)
	}
}
