package models

import (
	"time"

	"github.com/google/uuid"
)

// AppliedCoupon records a redemption; its existence implies the coupon's
// usage count was incremented exactly once for the order.
type AppliedCoupon struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID       uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	CouponID      uuid.UUID `gorm:"column:coupon_id;type:uuid;not null;index"`
	DiscountCents int       `gorm:"column:discount_cents;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
