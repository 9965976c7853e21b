package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

// Service manages user and guest carts.
type Service interface {
	GetCart(ctx context.Context, owner Owner) (*CartDTO, error)
	AddItem(ctx context.Context, owner Owner, dto AddItemDTO) (*CartDTO, error)
	UpdateItem(ctx context.Context, owner Owner, lineID uuid.UUID, dto UpdateItemDTO) (*CartDTO, error)
	RemoveItem(ctx context.Context, owner Owner, lineID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, owner Owner) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	lines    *Repository
	products productFinder
}

// ServiceParams bundles the cart service dependencies.
type ServiceParams struct {
	Lines    *Repository
	Products productFinder
}

// NewService constructs a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Lines == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	return &service{lines: params.Lines, products: params.Products}, nil
}

func (s *service) GetCart(ctx context.Context, owner Owner) (*CartDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	lines, err := s.lines.ListByOwner(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cartFromLines(lines), nil
}

func (s *service) AddItem(ctx context.Context, owner Owner, dto AddItemDTO) (*CartDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if dto.Qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.orderableProduct(ctx, dto.ProductID)
	if err != nil {
		return nil, err
	}

	existing, err := s.lines.FindByProduct(ctx, owner, dto.ProductID)
	switch {
	case err == nil:
		// same product again merges into one line
		merged := existing.Qty + dto.Qty
		if merged > product.StockQty {
			return nil, insufficientStock(product)
		}
		if err := s.lines.UpdateQty(ctx, existing.ID, merged); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merge cart line")
		}
	case IsNotFound(err):
		if dto.Qty > product.StockQty {
			return nil, insufficientStock(product)
		}
		line := &models.CartLine{
			ID:         uuid.New(),
			ProductID:  dto.ProductID,
			Qty:        dto.Qty,
			Attributes: dto.Attributes,
			UserID:     owner.UserID,
			SessionID:  owner.SessionID,
		}
		if _, err := s.lines.Create(ctx, line); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart line")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up cart line")
	}

	return s.GetCart(ctx, owner)
}

func (s *service) UpdateItem(ctx context.Context, owner Owner, lineID uuid.UUID, dto UpdateItemDTO) (*CartDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if dto.Qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	line, err := s.lines.FindLine(ctx, owner, lineID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}

	product, err := s.orderableProduct(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if dto.Qty > product.StockQty {
		return nil, insufficientStock(product)
	}

	if err := s.lines.UpdateQty(ctx, line.ID, dto.Qty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}
	return s.GetCart(ctx, owner)
}

func (s *service) RemoveItem(ctx context.Context, owner Owner, lineID uuid.UUID) (*CartDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if err := s.lines.DeleteLine(ctx, owner, lineID); err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart line")
	}
	return s.GetCart(ctx, owner)
}

func (s *service) Clear(ctx context.Context, owner Owner) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if err := s.lines.ClearByOwner(ctx, owner); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func (s *service) orderableProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsOrderable() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not available")
	}
	return product, nil
}

func insufficientStock(product *models.Product) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
		WithDetails(map[string]any{
			"product_id": product.ID,
			"available":  product.StockQty,
		})
}
