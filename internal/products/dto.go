package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucasbarrena/shoplane-backend/pkg/db/models"
)

// ProductDTO is the catalog representation returned to clients.
type ProductDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	ImageURL   *string   `json:"image_url,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductPageDTO bundles a product page with its continuation cursor.
type ProductPageDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateProductInput carries the fields accepted for a new listing.
type CreateProductInput struct {
	Name       string  `json:"name" validate:"required"`
	PriceCents int     `json:"price_cents" validate:"required,min=0"`
	ImageURL   *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// UpdateProductInput carries partial updates for an existing listing.
type UpdateProductInput struct {
	Name       *string `json:"name,omitempty"`
	PriceCents *int    `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	ImageURL   *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func toDTO(product *models.Product) ProductDTO {
	return ProductDTO{
		ID:         product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		ImageURL:   product.ImageURL,
		IsActive:   product.IsActive,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}
