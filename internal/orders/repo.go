package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/pagination"
)

// Repository persists orders, their items, and coupon redemptions.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateOrder inserts the order header and its items.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateAppliedCoupon records a redemption for an order.
func (r *Repository) CreateAppliedCoupon(ctx context.Context, applied *models.AppliedCoupon) error {
	return r.db.WithContext(ctx).Create(applied).Error
}

// FindByID loads one order with items and coupon preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Items").
		Preload("Coupon").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForUser loads one order scoped to its owner.
func (r *Repository) FindForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		Preload("Items").
		Preload("Coupon").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForUser pages through one user's orders, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, input ListOrdersInput) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	return r.list(query, input)
}

// ListAll pages through every order for the admin surface.
func (r *Repository) ListAll(ctx context.Context, input ListOrdersInput) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	return r.list(query, input)
}

func (r *Repository) list(query *gorm.DB, input ListOrdersInput) ([]models.Order, int64, error) {
	if input.Status != nil {
		query = query.Where("status = ?", *input.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Preload("Coupon").
		Order("created_at DESC").
		Order("id ASC").
		Limit(input.Pagination.Limit).
		Offset(pagination.Offset(input.Pagination)).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus persists status changes on an order.
func (r *Repository) UpdateStatus(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
		}).Error
}
