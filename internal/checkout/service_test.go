package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasbarrena/shoplane-backend/internal/cart"
	"github.com/lucasbarrena/shoplane-backend/internal/shipping"
	"github.com/lucasbarrena/shoplane-backend/pkg/db/models"
	"github.com/lucasbarrena/shoplane-backend/pkg/enums"
	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
	"github.com/lucasbarrena/shoplane-backend/pkg/logger"
)

type stubCarts struct {
	items    []cart.LineItem
	cleared  bool
	clearErr error
}

func (s *stubCarts) Get(ctx context.Context, owner string) ([]cart.LineItem, error) {
	return s.items, nil
}

func (s *stubCarts) Totals(ctx context.Context, owner string) (cart.Totals, error) {
	return cart.ComputeTotals(s.items, cart.DefaultTaxRate), nil
}

func (s *stubCarts) Clear(ctx context.Context, owner string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = true
	return nil
}

type stubShippings struct {
	details *shipping.Details
	cleared bool
}

func (s *stubShippings) Get(ctx context.Context, owner string) (shipping.Details, error) {
	if s.details == nil {
		return shipping.Details{}, pkgerrors.New(pkgerrors.CodeNotFound, "shipping details not found")
	}
	return *s.details, nil
}

func (s *stubShippings) Clear(ctx context.Context, owner string) error {
	s.cleared = true
	return nil
}

type stubOrdersRepo struct {
	created      *models.Order
	paidID       uuid.UUID
	paidIntentID string
}

func (s *stubOrdersRepo) Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	s.created = order
	return order, nil
}

func (s *stubOrdersRepo) SetPaid(ctx context.Context, tx *gorm.DB, id uuid.UUID, paymentIntentID string) error {
	s.paidID = id
	s.paidIntentID = paymentIntentID
	return nil
}

type stubTransactor struct{}

func (stubTransactor) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubPayments struct {
	err     error
	amounts []int64
}

func (s *stubPayments) AuthorizePayment(ctx context.Context, amountCents int64, description string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.amounts = append(s.amounts, amountCents)
	return "pi_test_1", nil
}

func validShippingDetails() *shipping.Details {
	return &shipping.Details{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Address:    "1 Analytical Way",
		City:       "London",
		State:      "LDN",
		PostalCode: "E1 6AN",
		Country:    "GB",
		Phone:      "+44 20 0000 0000",
	}
}

func newCheckoutTestService(t *testing.T, carts *stubCarts, shippings *stubShippings, repo *stubOrdersRepo, payments *stubPayments) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
	svc, err := NewService(carts, shippings, repo, stubTransactor{}, payments, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestConfirmRequiresAuthentication(t *testing.T) {
	t.Parallel()

	svc := newCheckoutTestService(t, &stubCarts{}, &stubShippings{}, &stubOrdersRepo{}, &stubPayments{})

	_, err := svc.Confirm(context.Background(), uuid.Nil, "owner-1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestConfirmRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	svc := newCheckoutTestService(t, &stubCarts{}, &stubShippings{details: validShippingDetails()}, &stubOrdersRepo{}, &stubPayments{})

	_, err := svc.Confirm(context.Background(), uuid.New(), "owner-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation || typed.Message() != "cart is empty" {
		t.Fatalf("expected empty cart validation error, got %v", err)
	}
}

func TestConfirmRequiresShippingDetails(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{items: []cart.LineItem{
		{ProductID: uuid.New(), Name: "Desk Lamp", UnitPriceCents: 1000, Quantity: 1},
	}}
	svc := newCheckoutTestService(t, carts, &stubShippings{}, &stubOrdersRepo{}, &stubPayments{})

	_, err := svc.Confirm(context.Background(), uuid.New(), "owner-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation || typed.Message() != "shipping details are required" {
		t.Fatalf("expected shipping validation error, got %v", err)
	}
}

func TestConfirmPaymentFailureLeavesCartIntact(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{items: []cart.LineItem{
		{ProductID: uuid.New(), Name: "Desk Lamp", UnitPriceCents: 1000, Quantity: 1},
	}}
	repo := &stubOrdersRepo{}
	payments := &stubPayments{err: errors.New("card declined")}
	svc := newCheckoutTestService(t, carts, &stubShippings{details: validShippingDetails()}, repo, payments)

	_, err := svc.Confirm(context.Background(), uuid.New(), "owner-1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if repo.paidIntentID != "" {
		t.Fatal("order must not be marked paid after a declined payment")
	}
	if carts.cleared {
		t.Fatal("cart must survive a failed checkout")
	}
}

func TestConfirmSnapshotsCartAndClearsState(t *testing.T) {
	t.Parallel()

	lamp := uuid.New()
	cable := uuid.New()
	carts := &stubCarts{items: []cart.LineItem{
		{ProductID: lamp, Name: "Desk Lamp", UnitPriceCents: 1000, Quantity: 2},
		{ProductID: cable, Name: "USB Cable", UnitPriceCents: 500, Quantity: 1},
	}}
	shippings := &stubShippings{details: validShippingDetails()}
	repo := &stubOrdersRepo{}
	payments := &stubPayments{}
	svc := newCheckoutTestService(t, carts, shippings, repo, payments)

	userID := uuid.New()
	dto, err := svc.Confirm(context.Background(), userID, "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dto.Status != enums.OrderStatusPaid {
		t.Fatalf("expected paid order, got %s", dto.Status)
	}
	if dto.SubtotalCents != 2500 || dto.TaxCents != 250 || dto.ShippingCents != 0 || dto.TotalCents != 2750 {
		t.Fatalf("unexpected totals: %+v", dto)
	}
	if dto.PaymentIntentID == nil || *dto.PaymentIntentID != "pi_test_1" {
		t.Fatalf("expected payment intent id, got %+v", dto.PaymentIntentID)
	}
	if len(dto.LineItems) != 2 || dto.LineItems[0].ProductID != lamp || dto.LineItems[1].Quantity != 1 {
		t.Fatalf("unexpected line items: %+v", dto.LineItems)
	}
	if dto.Shipping.PostalCode != "E1 6AN" || dto.Shipping.Country != "GB" {
		t.Fatalf("unexpected shipping snapshot: %+v", dto.Shipping)
	}
	if dto.UserID != userID {
		t.Fatalf("order bound to wrong user: %s", dto.UserID)
	}

	if len(payments.amounts) != 1 || payments.amounts[0] != 2750 {
		t.Fatalf("expected one charge of 2750, got %+v", payments.amounts)
	}
	if repo.paidID != dto.ID {
		t.Fatal("paid order id mismatch")
	}
	if !carts.cleared || !shippings.cleared {
		t.Fatal("expected cart and shipping details to be cleared")
	}
}

func TestConfirmToleratesCleanupFailure(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{
		items: []cart.LineItem{
			{ProductID: uuid.New(), Name: "Desk Lamp", UnitPriceCents: 1000, Quantity: 1},
		},
		clearErr: errors.New("redis down"),
	}
	svc := newCheckoutTestService(t, carts, &stubShippings{details: validShippingDetails()}, &stubOrdersRepo{}, &stubPayments{})

	dto, err := svc.Confirm(context.Background(), uuid.New(), "owner-1")
	if err != nil {
		t.Fatalf("checkout must succeed even when cleanup fails: %v", err)
	}
	if dto.Status != enums.OrderStatusPaid {
		t.Fatalf("expected paid order, got %s", dto.Status)
	}
}
