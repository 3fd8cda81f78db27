package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucasbarrena/shoplane-backend/pkg/enums"
)

// Order captures a confirmed checkout snapshot.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Status            enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	SubtotalCents     int               `gorm:"column:subtotal_cents;not null;default:0"`
	ShippingCents     int               `gorm:"column:shipping_cents;not null;default:0"`
	TaxCents          int               `gorm:"column:tax_cents;not null;default:0"`
	TotalCents        int               `gorm:"column:total_cents;not null;default:0"`
	PaymentIntentID   *string           `gorm:"column:payment_intent_id"`
	ShippingFirstName string            `gorm:"column:shipping_first_name;not null"`
	ShippingLastName  string            `gorm:"column:shipping_last_name;not null"`
	ShippingEmail     string            `gorm:"column:shipping_email;not null"`
	ShippingAddress   string            `gorm:"column:shipping_address;not null"`
	ShippingCity      string            `gorm:"column:shipping_city;not null"`
	ShippingState     string            `gorm:"column:shipping_state;not null"`
	ShippingPostal    string            `gorm:"column:shipping_postal;not null"`
	ShippingCountry   string            `gorm:"column:shipping_country;not null"`
	ShippingPhone     string            `gorm:"column:shipping_phone;not null"`
	LineItems         []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
