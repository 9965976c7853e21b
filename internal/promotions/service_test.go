package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

func setupPromotionsDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:promotions_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`DROP TABLE IF EXISTS coupons`,
		`DROP TABLE IF EXISTS shipping_methods`,
		`CREATE TABLE coupons (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			discount_value TEXT NOT NULL,
			minimum_amount_cents INTEGER NOT NULL DEFAULT 0,
			maximum_amount_cents INTEGER NOT NULL DEFAULT 0,
			starts_at DATETIME NOT NULL,
			ends_at DATETIME NOT NULL,
			usage_limit INTEGER NOT NULL DEFAULT 0,
			usage_count INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE shipping_methods (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			charge_cents INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func newPromotionsService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Coupons:  NewCouponRepository(gdb),
		Shipping: NewShippingMethodRepository(gdb),
	})
	require.NoError(t, err)
	return svc
}

func TestCouponCRUD(t *testing.T) {
	gdb := setupPromotionsDB(t)
	svc := newPromotionsService(t, gdb)
	ctx := context.Background()
	now := time.Now()

	created, err := svc.CreateCoupon(ctx, CreateCouponDTO{
		Code:          " welcome10 ",
		Type:          "percentage",
		DiscountValue: decimal.RequireFromString("10"),
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", created.Code, "codes are uppercased at the boundary")
	assert.Equal(t, enums.CouponTypePercentage, created.Type)
	assert.True(t, created.IsActive)

	_, err = svc.CreateCoupon(ctx, CreateCouponDTO{
		Code:          "welcome10",
		Type:          "fixed",
		DiscountValue: decimal.RequireFromString("500"),
		StartsAt:      now,
		EndsAt:        now.Add(time.Hour),
	})
	requirePromotionsErrorCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.CreateCoupon(ctx, CreateCouponDTO{
		Code:          "BACKWARDS",
		Type:          "fixed",
		DiscountValue: decimal.RequireFromString("500"),
		StartsAt:      now.Add(time.Hour),
		EndsAt:        now,
	})
	requirePromotionsErrorCode(t, err, pkgerrors.CodeValidation)

	limit := 5
	inactive := false
	updated, err := svc.UpdateCoupon(ctx, created.ID, UpdateCouponDTO{
		UsageLimit: &limit,
		IsActive:   &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.UsageLimit)
	assert.False(t, updated.IsActive)

	coupons, err := svc.ListCoupons(ctx)
	require.NoError(t, err)
	assert.Len(t, coupons, 1)

	require.NoError(t, svc.DeleteCoupon(ctx, created.ID))
	err = svc.DeleteCoupon(ctx, created.ID)
	requirePromotionsErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestCouponUsageLifecycle(t *testing.T) {
	gdb := setupPromotionsDB(t)
	repo := NewCouponRepository(gdb)
	svc := newPromotionsService(t, gdb)
	ctx := context.Background()
	now := time.Now()

	created, err := svc.CreateCoupon(ctx, CreateCouponDTO{
		Code:          "SUMMER",
		Type:          "percentage",
		DiscountValue: decimal.RequireFromString("15"),
		StartsAt:      now.Add(-2 * time.Hour),
		EndsAt:        now.Add(-time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, repo.IncrementUsage(ctx, created.ID))
	require.NoError(t, repo.IncrementUsage(ctx, created.ID))
	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.UsageCount)

	// the expired window deactivates on sweep
	changed, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	reloaded, err = repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	// a second sweep is a no-op
	changed, err = repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestShippingMethodCRUD(t *testing.T) {
	gdb := setupPromotionsDB(t)
	svc := newPromotionsService(t, gdb)
	ctx := context.Background()

	standard, err := svc.CreateShippingMethod(ctx, CreateShippingMethodDTO{
		Name:        "Standard",
		ChargeCents: 500,
	})
	require.NoError(t, err)

	_, err = svc.CreateShippingMethod(ctx, CreateShippingMethodDTO{
		Name:        "Standard",
		ChargeCents: 900,
	})
	requirePromotionsErrorCode(t, err, pkgerrors.CodeConflict)

	disabled := false
	express, err := svc.CreateShippingMethod(ctx, CreateShippingMethodDTO{
		Name:        "Express",
		ChargeCents: 1500,
		IsActive:    &disabled,
	})
	require.NoError(t, err)

	active, err := svc.ListShippingMethods(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, standard.ID, active[0].ID)

	all, err := svc.ListShippingMethods(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	charge := 1200
	updated, err := svc.UpdateShippingMethod(ctx, express.ID, UpdateShippingMethodDTO{
		ChargeCents: &charge,
	})
	require.NoError(t, err)
	assert.Equal(t, 1200, updated.ChargeCents)

	name := "Standard"
	_, err = svc.UpdateShippingMethod(ctx, express.ID, UpdateShippingMethodDTO{Name: &name})
	requirePromotionsErrorCode(t, err, pkgerrors.CodeConflict)

	require.NoError(t, svc.DeleteShippingMethod(ctx, express.ID))
	err = svc.DeleteShippingMethod(ctx, express.ID)
	requirePromotionsErrorCode(t, err, pkgerrors.CodeNotFound)
}

func requirePromotionsErrorCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code())
}
