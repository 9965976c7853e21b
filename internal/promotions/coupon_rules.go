package promotions

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// ValidateRedemption checks whether a coupon can be applied to an order with
// the given subtotal at the given moment.
func ValidateRedemption(coupon *models.Coupon, subtotalCents int, now time.Time) error {
	if !coupon.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon is not active")
	}
	if now.Before(coupon.StartsAt) || now.After(coupon.EndsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon is outside its redemption window")
	}
	if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon usage limit reached")
	}
	if subtotalCents < coupon.MinimumAmountCents {
		return pkgerrors.New(pkgerrors.CodeValidation, "order subtotal below coupon minimum").
			WithDetails(map[string]any{"minimum_amount_cents": coupon.MinimumAmountCents})
	}
	return nil
}

// DiscountCents computes the discount a coupon yields against a subtotal.
// Percentage discounts are capped by MaximumAmountCents when set; fixed
// discounts are applied as-is, even past the subtotal.
func DiscountCents(coupon *models.Coupon, subtotalCents int) int {
	switch coupon.Type {
	case enums.CouponTypePercentage:
		discount := decimal.NewFromInt(int64(subtotalCents)).
			Mul(coupon.DiscountValue).
			Div(hundred).
			Round(0)
		cents := int(discount.IntPart())
		if coupon.MaximumAmountCents > 0 && cents > coupon.MaximumAmountCents {
			return coupon.MaximumAmountCents
		}
		return cents
	case enums.CouponTypeFixed:
		return int(coupon.DiscountValue.Round(0).IntPart())
	default:
		return 0
	}
}
