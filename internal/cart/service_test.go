package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasbarrena/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
)

type stubStore struct {
	items    map[string][]LineItem
	setCalls int
}

func newStubStore() *stubStore {
	return &stubStore{items: map[string][]LineItem{}}
}

func (s *stubStore) Get(ctx context.Context, owner string) ([]LineItem, error) {
	items, ok := s.items[owner]
	if !ok {
		return []LineItem{}, nil
	}
	return items, nil
}

func (s *stubStore) Set(ctx context.Context, owner string, items []LineItem) error {
	s.setCalls++
	s.items[owner] = items
	return nil
}

func (s *stubStore) Clear(ctx context.Context, owner string) error {
	delete(s.items, owner)
	return nil
}

type stubProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (s stubProductLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, store Store, products map[uuid.UUID]*models.Product) Service {
	t.Helper()
	svc, err := NewService(store, stubProductLoader{products: products}, DefaultTaxRate)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddItemAppendsFromCatalog(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	store := newStubStore()
	svc := newTestService(t, store, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Desk Lamp", PriceCents: 1000, IsActive: true},
	})

	items, err := svc.AddItem(context.Background(), "owner-1", productID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 2 || items[0].UnitPriceCents != 1000 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	store := newStubStore()
	svc := newTestService(t, store, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Desk Lamp", PriceCents: 1000, IsActive: true},
	})

	if _, err := svc.AddItem(context.Background(), "owner-1", productID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	items, err := svc.AddItem(context.Background(), "owner-1", productID, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", items[0].Quantity)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubStore(), nil)

	_, err := svc.AddItem(context.Background(), "owner-1", uuid.New(), 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubStore(), nil)

	_, err := svc.AddItem(context.Background(), "owner-1", uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemInactiveProduct(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := newTestService(t, newStubStore(), map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Retired", PriceCents: 100, IsActive: false},
	})

	_, err := svc.AddItem(context.Background(), "owner-1", productID, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	store := newStubStore()
	store.items["owner-1"] = []LineItem{{ProductID: productID, Name: "Desk Lamp", UnitPriceCents: 1000, Quantity: 1}}
	svc := newTestService(t, store, nil)

	items, err := svc.RemoveItem(context.Background(), "owner-1", productID)
	if err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}

	writes := store.setCalls
	items, err = svc.RemoveItem(context.Background(), "owner-1", productID)
	if err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected cart to stay empty, got %+v", items)
	}
	if store.setCalls != writes {
		t.Fatal("removing an absent product should not rewrite the cart")
	}
}

func TestClearThenGetReturnsEmpty(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.items["owner-1"] = []LineItem{{ProductID: uuid.New(), Quantity: 2, UnitPriceCents: 500}}
	svc := newTestService(t, store, nil)

	if err := svc.Clear(context.Background(), "owner-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	items, err := svc.Get(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", items)
	}
}

func TestTotalsUsesCurrentCart(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.items["owner-1"] = []LineItem{
		{ProductID: uuid.New(), UnitPriceCents: 1000, Quantity: 2},
		{ProductID: uuid.New(), UnitPriceCents: 500, Quantity: 1},
	}
	svc := newTestService(t, store, nil)

	totals, err := svc.Totals(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if got := totals.Total.StringFixed(2); got != "27.50" {
		t.Fatalf("total = %s, want 27.50", got)
	}
}

func TestOperationsRequireOwner(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubStore(), nil)

	if _, err := svc.Get(context.Background(), ""); pkgerrors.As(err) == nil {
		t.Fatal("expected owner validation error")
	}
	if err := svc.Clear(context.Background(), ""); pkgerrors.As(err) == nil {
		t.Fatal("expected owner validation error")
	}
}
