package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightcart/storefront-backend/pkg/enums"
)

// Coupon is a redeemable discount code. DiscountValue is a percentage rate
// for percentage coupons and a cents amount for fixed coupons.
type Coupon struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string           `gorm:"column:code;not null;uniqueIndex"`
	Type               enums.CouponType `gorm:"column:type;type:text;not null"`
	DiscountValue      decimal.Decimal  `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinimumAmountCents int              `gorm:"column:minimum_amount_cents;not null;default:0"`
	MaximumAmountCents int              `gorm:"column:maximum_amount_cents;not null;default:0"`
	StartsAt           time.Time        `gorm:"column:starts_at;not null"`
	EndsAt             time.Time        `gorm:"column:ends_at;not null"`
	UsageLimit         int              `gorm:"column:usage_limit;not null;default:0"`
	UsageCount         int              `gorm:"column:usage_count;not null;default:0"`
	IsActive           bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
