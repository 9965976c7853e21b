package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	"github.com/brightcart/storefront-backend/pkg/pagination"
)

// Sort options supported by the browse endpoint.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortPopular   = "popular"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	Query      string
	Sort       string
}

// ListProductsInput captures the inputs needed to paginate and filter products.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
	// IncludeUnlisted widens the result set to drafts and inactive products
	// for the admin surface.
	IncludeUnlisted bool
}

// RatingSummary aggregates review data for one product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// BrandDTO is the public brand shape.
type BrandDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryDTO is the public category shape.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductDTO is the public product shape returned by list and detail reads.
type ProductDTO struct {
	ID                   uuid.UUID           `json:"id"`
	SKU                  string              `json:"sku"`
	Title                string              `json:"title"`
	Description          *string             `json:"description,omitempty"`
	PriceCents           int                 `json:"price_cents"`
	DiscountedPriceCents *int                `json:"discounted_price_cents,omitempty"`
	StockQty             int                 `json:"stock_qty"`
	SoldCount            int                 `json:"sold_count"`
	Status               enums.ProductStatus `json:"status"`
	Tags                 []string            `json:"tags"`
	Images               []string            `json:"images"`
	Brand                *BrandDTO           `json:"brand,omitempty"`
	Category             *CategoryDTO        `json:"category,omitempty"`
	Rating               RatingSummary       `json:"rating"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// ReviewDTO is a single product review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductDetailDTO bundles a product with its reviews.
type ProductDetailDTO struct {
	Product ProductDTO  `json:"product"`
	Reviews []ReviewDTO `json:"reviews"`
}

// CreateBrandDTO holds the admin payload to persist a brand.
type CreateBrandDTO struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Slug        string  `json:"slug" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UpdateBrandDTO carries the mutable brand fields. Nil means unchanged.
type UpdateBrandDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CreateCategoryDTO holds the admin payload to persist a category.
type CreateCategoryDTO struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Slug        string  `json:"slug" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UpdateCategoryDTO carries the mutable category fields. Nil means unchanged.
type UpdateCategoryDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CreateProductDTO holds the admin payload to persist a product.
type CreateProductDTO struct {
	BrandID              uuid.UUID `json:"brand_id" validate:"required"`
	CategoryID           uuid.UUID `json:"category_id" validate:"required"`
	SKU                  string    `json:"sku" validate:"required,max=100"`
	Title                string    `json:"title" validate:"required,max=300"`
	Description          *string   `json:"description,omitempty"`
	PriceCents           int       `json:"price_cents" validate:"gte=0"`
	DiscountedPriceCents *int      `json:"discounted_price_cents,omitempty" validate:"omitempty,gte=0"`
	StockQty             int       `json:"stock_qty" validate:"gte=0"`
	Status               string    `json:"status" validate:"omitempty,oneof=active inactive draft"`
	Tags                 []string  `json:"tags,omitempty"`
	Images               []string  `json:"images,omitempty"`
}

// UpdateProductDTO carries the mutable product fields. Nil means unchanged.
type UpdateProductDTO struct {
	BrandID              *uuid.UUID `json:"brand_id,omitempty"`
	CategoryID           *uuid.UUID `json:"category_id,omitempty"`
	SKU                  *string    `json:"sku,omitempty" validate:"omitempty,max=100"`
	Title                *string    `json:"title,omitempty" validate:"omitempty,max=300"`
	Description          *string    `json:"description,omitempty"`
	PriceCents           *int       `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	DiscountedPriceCents *int       `json:"discounted_price_cents,omitempty" validate:"omitempty,gte=0"`
	StockQty             *int       `json:"stock_qty,omitempty" validate:"omitempty,gte=0"`
	Status               *string    `json:"status,omitempty" validate:"omitempty,oneof=active inactive draft"`
	Tags                 []string   `json:"tags,omitempty"`
	Images               []string   `json:"images,omitempty"`
}

func brandFromModel(b *models.Brand) *BrandDTO {
	if b == nil {
		return nil
	}
	return &BrandDTO{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		LogoURL:     b.LogoURL,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func categoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func productFromModel(p *models.Product, rating RatingSummary) ProductDTO {
	dto := ProductDTO{
		ID:                   p.ID,
		SKU:                  p.SKU,
		Title:                p.Title,
		Description:          p.Description,
		PriceCents:           p.PriceCents,
		DiscountedPriceCents: p.DiscountedPriceCents,
		StockQty:             p.StockQty,
		SoldCount:            p.SoldCount,
		Status:               p.Status,
		Tags:                 append([]string{}, p.Tags...),
		Images:               append([]string{}, p.Images...),
		Brand:                brandFromModel(p.Brand),
		Category:             categoryFromModel(p.Category),
		Rating:               rating,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	return dto
}

func reviewFromModel(r models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
