package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/brightcart/storefront-backend/pkg/pagination"
)

// Service exposes catalog reads for the storefront and writes for the admin
// surface.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*pagination.Page[ProductDTO], error)
	GetProductDetail(ctx context.Context, productID uuid.UUID) (*ProductDetailDTO, error)
	ListBrands(ctx context.Context, activeOnly bool) ([]BrandDTO, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]CategoryDTO, error)
	SubmitReview(ctx context.Context, userID, productID uuid.UUID, rating int, comment *string) (*ReviewDTO, error)

	CreateBrand(ctx context.Context, dto CreateBrandDTO) (*BrandDTO, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, dto UpdateBrandDTO) (*BrandDTO, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error
	CreateCategory(ctx context.Context, dto CreateCategoryDTO) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, dto UpdateCategoryDTO) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	products   *ProductRepository
	brands     *BrandRepository
	categories *CategoryRepository
	reviews    *ReviewRepository
}

// ServiceParams bundles the repositories required to build a catalog service.
type ServiceParams struct {
	Products   *ProductRepository
	Brands     *BrandRepository
	Categories *CategoryRepository
	Reviews    *ReviewRepository
}

// NewService constructs a catalog service with the provided repositories.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Brands == nil {
		return nil, fmt.Errorf("brand repository is required")
	}
	if params.Categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if params.Reviews == nil {
		return nil, fmt.Errorf("review repository is required")
	}
	return &service{
		products:   params.Products,
		brands:     params.Brands,
		categories: params.Categories,
		reviews:    params.Reviews,
	}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*pagination.Page[ProductDTO], error) {
	products, total, err := s.products.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	ratings, err := s.reviews.RatingsFor(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate ratings")
	}

	items := make([]ProductDTO, 0, len(products))
	for i := range products {
		items = append(items, productFromModel(&products[i], ratings[products[i].ID]))
	}

	page := pagination.NewPage(items, total, input.Pagination)
	return &page, nil
}

func (s *service) GetProductDetail(ctx context.Context, productID uuid.UUID) (*ProductDetailDTO, error) {
	product, err := s.products.FindDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reviews")
	}

	ratings, err := s.reviews.RatingsFor(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate ratings")
	}

	detail := &ProductDetailDTO{
		Product: productFromModel(product, ratings[productID]),
		Reviews: make([]ReviewDTO, 0, len(reviews)),
	}
	for _, review := range reviews {
		detail.Reviews = append(detail.Reviews, reviewFromModel(review))
	}
	return detail, nil
}

func (s *service) ListBrands(ctx context.Context, activeOnly bool) ([]BrandDTO, error) {
	brands, err := s.brands.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list brands")
	}
	dtos := make([]BrandDTO, 0, len(brands))
	for i := range brands {
		dtos = append(dtos, *brandFromModel(&brands[i]))
	}
	return dtos, nil
}

func (s *service) ListCategories(ctx context.Context, activeOnly bool) ([]CategoryDTO, error) {
	categories, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, *categoryFromModel(&categories[i]))
	}
	return dtos, nil
}

func (s *service) SubmitReview(ctx context.Context, userID, productID uuid.UUID, rating int, comment *string) (*ReviewDTO, error) {
	if rating < 1 || rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	review, err := s.reviews.Upsert(ctx, &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save review")
	}

	dto := reviewFromModel(*review)
	return &dto, nil
}

func (s *service) CreateBrand(ctx context.Context, dto CreateBrandDTO) (*BrandDTO, error) {
	slug := normalizeSlug(dto.Slug)
	if err := s.ensureBrandSlugFree(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}

	brand := &models.Brand{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(dto.Name),
		Slug:        slug,
		Description: dto.Description,
		LogoURL:     dto.LogoURL,
		IsActive:    true,
	}
	if dto.IsActive != nil {
		brand.IsActive = *dto.IsActive
	}

	created, err := s.brands.Create(ctx, brand)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create brand")
	}
	return brandFromModel(created), nil
}

func (s *service) UpdateBrand(ctx context.Context, id uuid.UUID, dto UpdateBrandDTO) (*BrandDTO, error) {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load brand")
	}

	if dto.Slug != nil {
		slug := normalizeSlug(*dto.Slug)
		if err := s.ensureBrandSlugFree(ctx, slug, id); err != nil {
			return nil, err
		}
		brand.Slug = slug
	}
	if dto.Name != nil {
		brand.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Description != nil {
		brand.Description = dto.Description
	}
	if dto.LogoURL != nil {
		brand.LogoURL = dto.LogoURL
	}
	if dto.IsActive != nil {
		brand.IsActive = *dto.IsActive
	}

	updated, err := s.brands.Update(ctx, brand)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update brand")
	}
	return brandFromModel(updated), nil
}

func (s *service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if _, err := s.brands.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load brand")
	}

	count, err := s.products.CountByBrand(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count brand products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "brand has products").
			WithDetails(map[string]any{"products": count})
	}

	if err := s.brands.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete brand")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, dto CreateCategoryDTO) (*CategoryDTO, error) {
	slug := normalizeSlug(dto.Slug)
	if err := s.ensureCategorySlugFree(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(dto.Name),
		Slug:        slug,
		Description: dto.Description,
		IsActive:    true,
	}
	if dto.IsActive != nil {
		category.IsActive = *dto.IsActive
	}

	created, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return categoryFromModel(created), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, dto UpdateCategoryDTO) (*CategoryDTO, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	if dto.Slug != nil {
		slug := normalizeSlug(*dto.Slug)
		if err := s.ensureCategorySlugFree(ctx, slug, id); err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	if dto.Name != nil {
		category.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Description != nil {
		category.Description = dto.Description
	}
	if dto.IsActive != nil {
		category.IsActive = *dto.IsActive
	}

	updated, err := s.categories.Update(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	return categoryFromModel(updated), nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category has products").
			WithDetails(map[string]any{"products": count})
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	sku := strings.TrimSpace(dto.SKU)
	if err := s.ensureSKUFree(ctx, sku, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.ensureBrandExists(ctx, dto.BrandID); err != nil {
		return nil, err
	}
	if err := s.ensureCategoryExists(ctx, dto.CategoryID); err != nil {
		return nil, err
	}

	status := enums.ProductStatusDraft
	if dto.Status != "" {
		parsed, err := enums.ParseProductStatus(dto.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
		}
		status = parsed
	}

	product := &models.Product{
		ID:                   uuid.New(),
		BrandID:              dto.BrandID,
		CategoryID:           dto.CategoryID,
		SKU:                  sku,
		Title:                strings.TrimSpace(dto.Title),
		Description:          dto.Description,
		PriceCents:           dto.PriceCents,
		DiscountedPriceCents: dto.DiscountedPriceCents,
		StockQty:             dto.StockQty,
		Status:               status,
		Tags:                 pq.StringArray(dto.Tags),
		Images:               pq.StringArray(dto.Images),
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	detail, err := s.products.FindDetail(ctx, created.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload product")
	}
	productDTO := productFromModel(detail, RatingSummary{})
	return &productDTO, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if dto.SKU != nil {
		sku := strings.TrimSpace(*dto.SKU)
		if err := s.ensureSKUFree(ctx, sku, id); err != nil {
			return nil, err
		}
		product.SKU = sku
	}
	if dto.BrandID != nil {
		if err := s.ensureBrandExists(ctx, *dto.BrandID); err != nil {
			return nil, err
		}
		product.BrandID = *dto.BrandID
	}
	if dto.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *dto.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *dto.CategoryID
	}
	if dto.Title != nil {
		product.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		product.Description = dto.Description
	}
	if dto.PriceCents != nil {
		product.PriceCents = *dto.PriceCents
	}
	if dto.DiscountedPriceCents != nil {
		product.DiscountedPriceCents = dto.DiscountedPriceCents
	}
	if dto.StockQty != nil {
		product.StockQty = *dto.StockQty
	}
	if dto.Status != nil {
		status, err := enums.ParseProductStatus(*dto.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
		}
		product.Status = status
	}
	if dto.Tags != nil {
		product.Tags = pq.StringArray(dto.Tags)
	}
	if dto.Images != nil {
		product.Images = pq.StringArray(dto.Images)
	}

	if _, err := s.products.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	detail, err := s.products.FindDetail(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload product")
	}
	ratings, err := s.reviews.RatingsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate ratings")
	}
	productDTO := productFromModel(detail, ratings[id])
	return &productDTO, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) ensureBrandSlugFree(ctx context.Context, slug string, selfID uuid.UUID) error {
	existing, err := s.brands.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check brand slug")
	}
	if existing.ID == selfID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "brand slug already in use")
}

func (s *service) ensureCategorySlugFree(ctx context.Context, slug string, selfID uuid.UUID) error {
	existing, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category slug")
	}
	if existing.ID == selfID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
}

func (s *service) ensureSKUFree(ctx context.Context, sku string, selfID uuid.UUID) error {
	existing, err := s.products.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check sku")
	}
	if existing.ID == selfID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
}

func (s *service) ensureBrandExists(ctx context.Context, id uuid.UUID) error {
	if _, err := s.brands.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "brand does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check brand")
	}
	return nil
}

func (s *service) ensureCategoryExists(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
	}
	return nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
