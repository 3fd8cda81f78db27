package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasbarrena/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
)

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart mutation and read operations keyed by cart owner.
type Service interface {
	AddItem(ctx context.Context, owner string, productID uuid.UUID, quantity int) ([]LineItem, error)
	RemoveItem(ctx context.Context, owner string, productID uuid.UUID) ([]LineItem, error)
	Clear(ctx context.Context, owner string) error
	Get(ctx context.Context, owner string) ([]LineItem, error)
	Totals(ctx context.Context, owner string) (Totals, error)
}

type service struct {
	store    Store
	products productLoader
	taxRate  decimal.Decimal
}

// NewService builds a cart service backed by the provided store and catalog.
func NewService(store Store, products productLoader, taxRate decimal.Decimal) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must be non-negative")
	}
	return &service{
		store:    store,
		products: products,
		taxRate:  taxRate,
	}, nil
}

// AddItem increments an existing line or appends a new one from the catalog.
func (s *service) AddItem(ctx context.Context, owner string, productID uuid.UUID, quantity int) ([]LineItem, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	items, err := s.store.Get(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}

	if !found {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		items = append(items, LineItem{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPriceCents: product.PriceCents,
			ImageURL:       product.ImageURL,
			Quantity:       quantity,
		})
	}

	if err := s.store.Set(ctx, owner, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return items, nil
}

// RemoveItem deletes the matching line. Removal is idempotent: an absent
// product leaves the cart untouched and still succeeds.
func (s *service) RemoveItem(ctx context.Context, owner string, productID uuid.UUID) ([]LineItem, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	items, err := s.store.Get(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	kept := items[:0]
	removed := false
	for _, item := range items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return items, nil
	}

	if err := s.store.Set(ctx, owner, kept); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return kept, nil
}

// Clear unconditionally empties the owner's cart.
func (s *service) Clear(ctx context.Context, owner string) error {
	if err := validateOwner(owner); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, owner); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// Get returns the owner's normalized line items.
func (s *service) Get(ctx context.Context, owner string) ([]LineItem, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	items, err := s.store.Get(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return items, nil
}

// Totals computes the price breakdown for the owner's current cart.
func (s *service) Totals(ctx context.Context, owner string) (Totals, error) {
	items, err := s.Get(ctx, owner)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(items, s.taxRate), nil
}

func validateOwner(owner string) error {
	if owner == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	return nil
}
