package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	"github.com/brightcart/storefront-backend/pkg/pagination"
)

// ProductRepository wires together product persistence helpers.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository builds a repository tied to the provided GORM DB.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// FindByID loads the product without associations.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindDetail fetches a product with its brand and category preloaded.
func (r *ProductRepository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU loads a product matching the unique SKU.
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves an existing product row.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// List returns one page of products plus the total count for the filter set.
func (r *ProductRepository) List(ctx context.Context, input ListProductsInput) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if !input.IncludeUnlisted {
		query = query.Where("status = ?", enums.ProductStatusActive)
	}
	if input.Filters.BrandID != nil {
		query = query.Where("brand_id = ?", *input.Filters.BrandID)
	}
	if input.Filters.CategoryID != nil {
		query = query.Where("category_id = ?", *input.Filters.CategoryID)
	}
	if q := strings.TrimSpace(input.Filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch input.Filters.Sort {
	case SortPriceAsc:
		query = query.Order("COALESCE(discounted_price_cents, price_cents) ASC")
	case SortPriceDesc:
		query = query.Order("COALESCE(discounted_price_cents, price_cents) DESC")
	case SortPopular:
		query = query.Order("sold_count DESC")
	default:
		query = query.Order("created_at DESC")
	}
	// stable tiebreak for identical sort keys
	query = query.Order("id ASC")

	params := pagination.Normalize(input.Pagination)
	var products []models.Product
	err := query.
		Preload("Brand").
		Preload("Category").
		Limit(params.Limit).
		Offset(pagination.Offset(params)).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CountByBrand reports how many products reference the brand.
func (r *ProductRepository) CountByBrand(ctx context.Context, brandID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("brand_id = ?", brandID).
		Count(&count).Error
	return count, err
}

// CountByCategory reports how many products reference the category.
func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// DecrementStock subtracts qty from stock and bumps sold_count, but only when
// enough stock remains. Returns the number of rows changed so callers can
// detect an oversell without a separate read.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty >= ?", productID, qty).
		Updates(map[string]any{
			"stock_qty":  gorm.Expr("stock_qty - ?", qty),
			"sold_count": gorm.Expr("sold_count + ?", qty),
		})
	return result.RowsAffected, result.Error
}
