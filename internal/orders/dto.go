package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucasbarrena/shoplane-backend/pkg/db/models"
	"github.com/lucasbarrena/shoplane-backend/pkg/enums"
)

// LineItemDTO is the persisted snapshot of one ordered product.
type LineItemDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

// ShippingSnapshotDTO echoes the shipping details captured at checkout.
type ShippingSnapshotDTO struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// OrderDTO is the order representation returned to clients.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	Status          enums.OrderStatus   `json:"status"`
	SubtotalCents   int                 `json:"subtotal_cents"`
	ShippingCents   int                 `json:"shipping_cents"`
	TaxCents        int                 `json:"tax_cents"`
	TotalCents      int                 `json:"total_cents"`
	PaymentIntentID *string             `json:"payment_intent_id,omitempty"`
	Shipping        ShippingSnapshotDTO `json:"shipping"`
	LineItems       []LineItemDTO       `json:"line_items"`
	CreatedAt       time.Time           `json:"created_at"`
}

// OrderPageDTO bundles an order page with its continuation cursor.
type OrderPageDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ToDTO converts a persisted order to its API shape.
func ToDTO(order *models.Order) OrderDTO {
	lines := make([]LineItemDTO, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		lines = append(lines, LineItemDTO{
			ProductID:      li.ProductID,
			Name:           li.Name,
			UnitPriceCents: li.UnitPriceCents,
			Quantity:       li.Quantity,
			ImageURL:       li.ImageURL,
		})
	}
	return OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          order.Status,
		SubtotalCents:   order.SubtotalCents,
		ShippingCents:   order.ShippingCents,
		TaxCents:        order.TaxCents,
		TotalCents:      order.TotalCents,
		PaymentIntentID: order.PaymentIntentID,
		Shipping: ShippingSnapshotDTO{
			FirstName:  order.ShippingFirstName,
			LastName:   order.ShippingLastName,
			Email:      order.ShippingEmail,
			Address:    order.ShippingAddress,
			City:       order.ShippingCity,
			State:      order.ShippingState,
			PostalCode: order.ShippingPostal,
			Country:    order.ShippingCountry,
			Phone:      order.ShippingPhone,
		},
		LineItems: lines,
		CreatedAt: order.CreatedAt,
	}
}
