package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/internal/catalog"
	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

func setupCartDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:cart_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`DROP TABLE IF EXISTS cart_lines`,
		`DROP TABLE IF EXISTS products`,
		`CREATE TABLE products (
			id TEXT PRIMARY KEY,
			brand_id TEXT NOT NULL,
			category_id TEXT NOT NULL,
			sku TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT,
			price_cents INTEGER NOT NULL,
			discounted_price_cents INTEGER,
			stock_qty INTEGER NOT NULL DEFAULT 0,
			sold_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'draft',
			tags TEXT,
			images TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE cart_lines (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			session_id TEXT,
			product_id TEXT NOT NULL,
			qty INTEGER NOT NULL,
			attributes TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			CHECK ((user_id IS NULL) <> (session_id IS NULL))
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func newCartService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Lines:    NewRepository(gdb),
		Products: catalog.NewProductRepository(gdb),
	})
	require.NoError(t, err)
	return svc
}

func seedCartProduct(t *testing.T, gdb *gorm.DB, priceCents, stockQty int, status enums.ProductStatus) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		BrandID:    uuid.New(),
		CategoryID: uuid.New(),
		SKU:        uuid.NewString(),
		Title:      "Widget",
		PriceCents: priceCents,
		StockQty:   stockQty,
		Status:     status,
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

func TestAddItemMergesPerProduct(t *testing.T) {
	gdb := setupCartDB(t)
	svc := newCartService(t, gdb)
	ctx := context.Background()

	product := seedCartProduct(t, gdb, 1500, 10, enums.ProductStatusActive)
	owner := UserOwner(uuid.New())

	cart, err := svc.AddItem(ctx, owner, AddItemDTO{ProductID: product.ID, Qty: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Qty)

	cart, err = svc.AddItem(ctx, owner, AddItemDTO{ProductID: product.ID, Qty: 3})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "same product merges into one line")
	assert.Equal(t, 5, cart.Items[0].Qty)
	assert.Equal(t, 7500, cart.SubtotalCents)
	assert.Equal(t, 5, cart.ItemCount)

	_, err = svc.AddItem(ctx, owner, AddItemDTO{ProductID: product.ID, Qty: 6})
	requireCartErrorCode(t, err, pkgerrors.CodeConflict)
}

func TestAddItemRejectsUnavailableProducts(t *testing.T) {
	gdb := setupCartDB(t)
	svc := newCartService(t, gdb)
	ctx := context.Background()
	owner := UserOwner(uuid.New())

	_, err := svc.AddItem(ctx, owner, AddItemDTO{ProductID: uuid.New(), Qty: 1})
	requireCartErrorCode(t, err, pkgerrors.CodeNotFound)

	draft := seedCartProduct(t, gdb, 1000, 10, enums.ProductStatusDraft)
	_, err = svc.AddItem(ctx, owner, AddItemDTO{ProductID: draft.ID, Qty: 1})
	requireCartErrorCode(t, err, pkgerrors.CodeNotFound)

	active := seedCartProduct(t, gdb, 1000, 2, enums.ProductStatusActive)
	_, err = svc.AddItem(ctx, owner, AddItemDTO{ProductID: active.ID, Qty: 3})
	requireCartErrorCode(t, err, pkgerrors.CodeConflict)
}

func TestOwnersAreIsolated(t *testing.T) {
	gdb := setupCartDB(t)
	svc := newCartService(t, gdb)
	ctx := context.Background()

	product := seedCartProduct(t, gdb, 1000, 10, enums.ProductStatusActive)
	user := UserOwner(uuid.New())
	guest := GuestOwner(uuid.New())

	_, err := svc.AddItem(ctx, user, AddItemDTO{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, guest, AddItemDTO{ProductID: product.ID, Qty: 4})
	require.NoError(t, err)

	userCart, err := svc.GetCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, userCart.Items, 1)
	assert.Equal(t, 1, userCart.Items[0].Qty)

	guestCart, err := svc.GetCart(ctx, guest)
	require.NoError(t, err)
	require.Len(t, guestCart.Items, 1)
	assert.Equal(t, 4, guestCart.Items[0].Qty)

	// one owner cannot remove another owner's line
	_, err = svc.RemoveItem(ctx, user, guestCart.Items[0].ID)
	requireCartErrorCode(t, err, pkgerrors.CodeNotFound)

	guestCart, err = svc.GetCart(ctx, guest)
	require.NoError(t, err)
	assert.Len(t, guestCart.Items, 1)
}

func TestUpdateItemBoundsQtyByStock(t *testing.T) {
	gdb := setupCartDB(t)
	svc := newCartService(t, gdb)
	ctx := context.Background()

	product := seedCartProduct(t, gdb, 1000, 5, enums.ProductStatusActive)
	owner := GuestOwner(uuid.New())

	cart, err := svc.AddItem(ctx, owner, AddItemDTO{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)
	lineID := cart.Items[0].ID

	cart, err = svc.UpdateItem(ctx, owner, lineID, UpdateItemDTO{Qty: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Qty)

	_, err = svc.UpdateItem(ctx, owner, lineID, UpdateItemDTO{Qty: 6})
	requireCartErrorCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.UpdateItem(ctx, owner, uuid.New(), UpdateItemDTO{Qty: 1})
	requireCartErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestClearAndPurge(t *testing.T) {
	gdb := setupCartDB(t)
	svc := newCartService(t, gdb)
	repo := NewRepository(gdb)
	ctx := context.Background()

	product := seedCartProduct(t, gdb, 1000, 10, enums.ProductStatusActive)
	owner := UserOwner(uuid.New())
	guest := GuestOwner(uuid.New())

	_, err := svc.AddItem(ctx, owner, AddItemDTO{ProductID: product.ID, Qty: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, guest, AddItemDTO{ProductID: product.ID, Qty: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, owner))
	cart, err := svc.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// stale guest lines are purged, user lines are retained
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, gdb.Exec(`UPDATE cart_lines SET updated_at = ?`, stale).Error)
	_, err = svc.AddItem(ctx, owner, AddItemDTO{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)
	require.NoError(t, gdb.Exec(`UPDATE cart_lines SET updated_at = ? WHERE user_id IS NOT NULL`, stale).Error)

	removed, err := repo.PurgeGuestOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	guestCart, err := svc.GetCart(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, guestCart.Items)

	userCart, err := svc.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, userCart.Items, 1)
}

func TestOwnerValidation(t *testing.T) {
	svc := newCartService(t, setupCartDB(t))
	ctx := context.Background()

	_, err := svc.GetCart(ctx, Owner{})
	requireCartErrorCode(t, err, pkgerrors.CodeValidation)

	userID := uuid.New()
	sessionID := uuid.New()
	_, err = svc.GetCart(ctx, Owner{UserID: &userID, SessionID: &sessionID})
	requireCartErrorCode(t, err, pkgerrors.CodeValidation)
}

func requireCartErrorCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code())
}
