package promotions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
)

// CouponDTO is the admin-facing coupon shape.
type CouponDTO struct {
	ID                 uuid.UUID        `json:"id"`
	Code               string           `json:"code"`
	Type               enums.CouponType `json:"type"`
	DiscountValue      decimal.Decimal  `json:"discount_value"`
	MinimumAmountCents int              `json:"minimum_amount_cents"`
	MaximumAmountCents int              `json:"maximum_amount_cents"`
	StartsAt           time.Time        `json:"starts_at"`
	EndsAt             time.Time        `json:"ends_at"`
	UsageLimit         int              `json:"usage_limit"`
	UsageCount         int              `json:"usage_count"`
	IsActive           bool             `json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CreateCouponDTO is the admin payload to create a coupon.
type CreateCouponDTO struct {
	Code               string          `json:"code" validate:"required,max=64"`
	Type               string          `json:"type" validate:"required,oneof=percentage fixed"`
	DiscountValue      decimal.Decimal `json:"discount_value" validate:"required"`
	MinimumAmountCents int             `json:"minimum_amount_cents" validate:"gte=0"`
	MaximumAmountCents int             `json:"maximum_amount_cents" validate:"gte=0"`
	StartsAt           time.Time       `json:"starts_at" validate:"required"`
	EndsAt             time.Time       `json:"ends_at" validate:"required"`
	UsageLimit         int             `json:"usage_limit" validate:"gte=0"`
	IsActive           *bool           `json:"is_active,omitempty"`
}

// UpdateCouponDTO carries mutable coupon fields. Nil means unchanged.
type UpdateCouponDTO struct {
	DiscountValue      *decimal.Decimal `json:"discount_value,omitempty"`
	MinimumAmountCents *int             `json:"minimum_amount_cents,omitempty" validate:"omitempty,gte=0"`
	MaximumAmountCents *int             `json:"maximum_amount_cents,omitempty" validate:"omitempty,gte=0"`
	StartsAt           *time.Time       `json:"starts_at,omitempty"`
	EndsAt             *time.Time       `json:"ends_at,omitempty"`
	UsageLimit         *int             `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	IsActive           *bool            `json:"is_active,omitempty"`
}

// ShippingMethodDTO is a flat-charge delivery option.
type ShippingMethodDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ChargeCents int       `json:"charge_cents"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateShippingMethodDTO is the admin payload to create a shipping method.
type CreateShippingMethodDTO struct {
	Name        string `json:"name" validate:"required,max=200"`
	ChargeCents int    `json:"charge_cents" validate:"gte=0"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// UpdateShippingMethodDTO carries mutable shipping method fields.
type UpdateShippingMethodDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	ChargeCents *int    `json:"charge_cents,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func couponFromModel(c *models.Coupon) *CouponDTO {
	return &CouponDTO{
		ID:                 c.ID,
		Code:               c.Code,
		Type:               c.Type,
		DiscountValue:      c.DiscountValue,
		MinimumAmountCents: c.MinimumAmountCents,
		MaximumAmountCents: c.MaximumAmountCents,
		StartsAt:           c.StartsAt,
		EndsAt:             c.EndsAt,
		UsageLimit:         c.UsageLimit,
		UsageCount:         c.UsageCount,
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func shippingMethodFromModel(m *models.ShippingMethod) *ShippingMethodDTO {
	return &ShippingMethodDTO{
		ID:          m.ID,
		Name:        m.Name,
		ChargeCents: m.ChargeCents,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
