package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

// AddItemDTO is the payload to save a product to the wishlist.
type AddItemDTO struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// ItemDTO is one saved product.
type ItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	SKU            string    `json:"sku"`
	UnitPriceCents int       `json:"unit_price_cents"`
	InStock        bool      `json:"in_stock"`
	CreatedAt      time.Time `json:"created_at"`
}

// Service manages per-user wishlists.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
	Add(ctx context.Context, userID uuid.UUID, dto AddItemDTO) (*ItemDTO, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	items    *Repository
	products productFinder
}

// ServiceParams bundles the wishlist service dependencies.
type ServiceParams struct {
	Items    *Repository
	Products productFinder
}

// NewService constructs a wishlist service.
func NewService(params ServiceParams) (Service, error) {
	if params.Items == nil {
		return nil, fmt.Errorf("wishlist repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	return &service{items: params.Items, products: params.Products}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist")
	}
	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, itemFromModel(&items[i]))
	}
	return dtos, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, dto AddItemDTO) (*ItemDTO, error) {
	product, err := s.products.FindByID(ctx, dto.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if _, err := s.items.FindByProduct(ctx, userID, dto.ProductID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already in wishlist")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up wishlist entry")
	}

	item, err := s.items.Create(ctx, &models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: dto.ProductID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save wishlist entry")
	}

	item.Product = product
	result := itemFromModel(item)
	return &result, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.items.DeleteByProduct(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete wishlist entry")
	}
	return nil
}

func itemFromModel(item *models.WishlistItem) ItemDTO {
	dto := ItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		CreatedAt: item.CreatedAt,
	}
	if item.Product != nil {
		dto.Title = item.Product.Title
		dto.SKU = item.Product.SKU
		dto.UnitPriceCents = item.Product.UnitPriceCents()
		dto.InStock = item.Product.StockQty > 0
	}
	return dto
}
