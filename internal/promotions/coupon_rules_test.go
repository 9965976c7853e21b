package promotions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

func activeCoupon(couponType enums.CouponType, value string) *models.Coupon {
	now := time.Now()
	return &models.Coupon{
		Code:          "WELCOME10",
		Type:          couponType,
		DiscountValue: decimal.RequireFromString(value),
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
		IsActive:      true,
	}
}

func TestValidateRedemption(t *testing.T) {
	now := time.Now()

	coupon := activeCoupon(enums.CouponTypePercentage, "10")
	require.NoError(t, ValidateRedemption(coupon, 300, now))

	inactive := activeCoupon(enums.CouponTypePercentage, "10")
	inactive.IsActive = false
	assertValidationError(t, ValidateRedemption(inactive, 300, now))

	early := activeCoupon(enums.CouponTypePercentage, "10")
	early.StartsAt = now.Add(time.Hour)
	early.EndsAt = now.Add(2 * time.Hour)
	assertValidationError(t, ValidateRedemption(early, 300, now))

	expired := activeCoupon(enums.CouponTypePercentage, "10")
	expired.StartsAt = now.Add(-2 * time.Hour)
	expired.EndsAt = now.Add(-time.Hour)
	assertValidationError(t, ValidateRedemption(expired, 300, now))

	exhausted := activeCoupon(enums.CouponTypePercentage, "10")
	exhausted.UsageLimit = 5
	exhausted.UsageCount = 5
	assertValidationError(t, ValidateRedemption(exhausted, 300, now))

	// zero usage limit means unlimited
	unlimited := activeCoupon(enums.CouponTypePercentage, "10")
	unlimited.UsageCount = 1000
	require.NoError(t, ValidateRedemption(unlimited, 300, now))

	belowMinimum := activeCoupon(enums.CouponTypePercentage, "10")
	belowMinimum.MinimumAmountCents = 500
	assertValidationError(t, ValidateRedemption(belowMinimum, 300, now))
	require.NoError(t, ValidateRedemption(belowMinimum, 500, now))
}

func TestDiscountCentsPercentage(t *testing.T) {
	coupon := activeCoupon(enums.CouponTypePercentage, "10")
	assert.Equal(t, 30, DiscountCents(coupon, 300))

	coupon.MaximumAmountCents = 20
	assert.Equal(t, 20, DiscountCents(coupon, 300), "cap bounds percentage discounts")

	fractional := activeCoupon(enums.CouponTypePercentage, "12.5")
	assert.Equal(t, 13, DiscountCents(fractional, 101))
}

func TestDiscountCentsFixed(t *testing.T) {
	coupon := activeCoupon(enums.CouponTypeFixed, "500")
	assert.Equal(t, 500, DiscountCents(coupon, 300), "fixed discounts are not capped at the subtotal")

	// the cap applies to percentage coupons only
	coupon.MaximumAmountCents = 100
	assert.Equal(t, 500, DiscountCents(coupon, 300))
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
