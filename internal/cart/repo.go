package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
)

// Repository persists cart lines.
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

func (r *Repository) scopeOwner(query *gorm.DB, owner Owner) *gorm.DB {
	if owner.UserID != nil {
		return query.Where("user_id = ?", *owner.UserID)
	}
	return query.Where("session_id = ?", *owner.SessionID)
}

// ListByOwner returns the owner's cart lines with products preloaded, oldest
// first.
func (r *Repository) ListByOwner(ctx context.Context, owner Owner) ([]models.CartLine, error) {
	var lines []models.CartLine
	query := r.scopeOwner(r.db.WithContext(ctx).Model(&models.CartLine{}), owner)
	if err := query.Preload("Product").Order("created_at ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindLine loads one line by id scoped to the owner.
func (r *Repository) FindLine(ctx context.Context, owner Owner, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	query := r.scopeOwner(r.db.WithContext(ctx).Where("id = ?", lineID), owner)
	if err := query.Preload("Product").First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// FindByProduct loads the owner's line for a product, if any.
func (r *Repository) FindByProduct(ctx context.Context, owner Owner, productID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	query := r.scopeOwner(r.db.WithContext(ctx).Where("product_id = ?", productID), owner)
	if err := query.First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// Create inserts a new cart line.
func (r *Repository) Create(ctx context.Context, line *models.CartLine) (*models.CartLine, error) {
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateQty sets the quantity on an existing line.
func (r *Repository) UpdateQty(ctx context.Context, lineID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Update("qty", qty).Error
}

// DeleteLine removes one line scoped to the owner. Returns
// gorm.ErrRecordNotFound when the line does not belong to the owner.
func (r *Repository) DeleteLine(ctx context.Context, owner Owner, lineID uuid.UUID) error {
	query := r.scopeOwner(r.db.WithContext(ctx).Where("id = ?", lineID), owner)
	result := query.Delete(&models.CartLine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearByOwner removes every line in the owner's cart.
func (r *Repository) ClearByOwner(ctx context.Context, owner Owner) error {
	query := r.scopeOwner(r.db.WithContext(ctx), owner)
	return query.Delete(&models.CartLine{}).Error
}

// PurgeGuestOlderThan deletes guest lines untouched since the cutoff and
// returns how many rows were removed.
func (r *Repository) PurgeGuestOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("session_id IS NOT NULL AND updated_at < ?", cutoff).
		Delete(&models.CartLine{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IsNotFound reports whether err is the gorm missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
