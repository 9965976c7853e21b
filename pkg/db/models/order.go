package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/pkg/enums"
	"github.com/brightcart/storefront-backend/pkg/types"
)

// Order is the immutable record of a placed order. Items are created in the
// same transaction; only status fields change afterwards.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	OrderNumber         string              `gorm:"column:order_number;not null;uniqueIndex"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	SubtotalCents       int                 `gorm:"column:subtotal_cents;not null"`
	ShippingChargeCents int                 `gorm:"column:shipping_charge_cents;not null;default:0"`
	CouponDiscountCents int                 `gorm:"column:coupon_discount_cents;not null;default:0"`
	TotalCents          int                 `gorm:"column:total_cents;not null"`
	CouponID            *uuid.UUID          `gorm:"column:coupon_id;type:uuid"`
	ShippingMethodID    *uuid.UUID          `gorm:"column:shipping_method_id;type:uuid"`
	ShippingAddress     types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress      types.Address       `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Items               []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Coupon              *Coupon             `gorm:"foreignKey:CouponID"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
