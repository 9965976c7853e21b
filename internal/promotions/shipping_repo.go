package promotions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
)

// ShippingMethodRepository persists flat-charge delivery options.
type ShippingMethodRepository struct {
	db *gorm.DB
}

func NewShippingMethodRepository(db *gorm.DB) *ShippingMethodRepository {
	return &ShippingMethodRepository{db: db}
}

func (r *ShippingMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&method).Error; err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *ShippingMethodRepository) FindByName(ctx context.Context, name string) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&method).Error; err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *ShippingMethodRepository) List(ctx context.Context, activeOnly bool) ([]models.ShippingMethod, error) {
	var methods []models.ShippingMethod
	query := r.db.WithContext(ctx).Model(&models.ShippingMethod{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("charge_cents ASC").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *ShippingMethodRepository) Create(ctx context.Context, method *models.ShippingMethod) (*models.ShippingMethod, error) {
	if err := r.db.WithContext(ctx).Create(method).Error; err != nil {
		return nil, err
	}
	return method, nil
}

func (r *ShippingMethodRepository) Update(ctx context.Context, method *models.ShippingMethod) (*models.ShippingMethod, error) {
	if err := r.db.WithContext(ctx).Save(method).Error; err != nil {
		return nil, err
	}
	return method, nil
}

func (r *ShippingMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ShippingMethod{}).Error
}
