package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasbarrena/shoplane-backend/internal/cart"
	"github.com/lucasbarrena/shoplane-backend/internal/orders"
	"github.com/lucasbarrena/shoplane-backend/internal/shipping"
	"github.com/lucasbarrena/shoplane-backend/pkg/db/models"
	"github.com/lucasbarrena/shoplane-backend/pkg/enums"
	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
	"github.com/lucasbarrena/shoplane-backend/pkg/logger"
)

type cartService interface {
	Get(ctx context.Context, owner string) ([]cart.LineItem, error)
	Totals(ctx context.Context, owner string) (cart.Totals, error)
	Clear(ctx context.Context, owner string) error
}

type shippingService interface {
	Get(ctx context.Context, owner string) (shipping.Details, error)
	Clear(ctx context.Context, owner string) error
}

type orderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error)
	SetPaid(ctx context.Context, tx *gorm.DB, id uuid.UUID, paymentIntentID string) error
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentAuthorizer interface {
	AuthorizePayment(ctx context.Context, amountCents int64, description string) (string, error)
}

// Service turns a cart plus captured shipping details into a paid order.
type Service interface {
	Confirm(ctx context.Context, userID uuid.UUID, owner string) (orders.OrderDTO, error)
}

type service struct {
	carts     cartService
	shippings shippingService
	ordersRep orderRepository
	tx        transactor
	payments  paymentAuthorizer
	logg      *logger.Logger
}

// NewService wires the checkout flow dependencies.
func NewService(carts cartService, shippings shippingService, ordersRep orderRepository, tx transactor, payments paymentAuthorizer, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if shippings == nil {
		return nil, fmt.Errorf("shipping service required")
	}
	if ordersRep == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment authorizer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:     carts,
		shippings: shippings,
		ordersRep: ordersRep,
		tx:        tx,
		payments:  payments,
		logg:      logg,
	}, nil
}

// Confirm snapshots the cart into an order, authorizes payment, marks the
// order paid, then clears the cart and shipping details.
func (s *service) Confirm(ctx context.Context, userID uuid.UUID, owner string) (orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	items, err := s.carts.Get(ctx, owner)
	if err != nil {
		return orders.OrderDTO{}, err
	}
	if len(items) == 0 {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	details, err := s.shippings.Get(ctx, owner)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping details are required")
		}
		return orders.OrderDTO{}, err
	}

	totals, err := s.carts.Totals(ctx, owner)
	if err != nil {
		return orders.OrderDTO{}, err
	}

	lines := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLineItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageURL:       item.ImageURL,
		})
	}

	order := &models.Order{
		UserID:            userID,
		Status:            enums.OrderStatusPending,
		SubtotalCents:     totals.SubtotalCents(),
		ShippingCents:     totals.ShippingCents(),
		TaxCents:          totals.TaxCents(),
		TotalCents:        totals.TotalCents(),
		ShippingFirstName: details.FirstName,
		ShippingLastName:  details.LastName,
		ShippingEmail:     details.Email,
		ShippingAddress:   details.Address,
		ShippingCity:      details.City,
		ShippingState:     details.State,
		ShippingPostal:    details.PostalCode,
		ShippingCountry:   details.Country,
		ShippingPhone:     details.Phone,
		LineItems:         lines,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.ordersRep.Create(ctx, tx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		intentID, err := s.payments.AuthorizePayment(ctx, int64(created.TotalCents), "order "+created.ID.String())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "authorize payment")
		}

		if err := s.ordersRep.SetPaid(ctx, tx, created.ID, intentID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
		}
		created.Status = enums.OrderStatusPaid
		created.PaymentIntentID = &intentID
		return nil
	}); err != nil {
		return orders.OrderDTO{}, err
	}

	// Cleanup failures are logged, not surfaced: the order already settled.
	if err := s.carts.Clear(ctx, owner); err != nil {
		s.logg.Warn(ctx, "clearing cart after checkout: "+err.Error())
	}
	if err := s.shippings.Clear(ctx, owner); err != nil {
		s.logg.Warn(ctx, "clearing shipping details after checkout: "+err.Error())
	}

	return orders.ToDTO(order), nil
}
