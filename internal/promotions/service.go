package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

// NormalizeCode canonicalizes a coupon code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Service authors coupons and shipping methods.
type Service interface {
	ListCoupons(ctx context.Context) ([]CouponDTO, error)
	GetCoupon(ctx context.Context, id uuid.UUID) (*CouponDTO, error)
	CreateCoupon(ctx context.Context, dto CreateCouponDTO) (*CouponDTO, error)
	UpdateCoupon(ctx context.Context, id uuid.UUID, dto UpdateCouponDTO) (*CouponDTO, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error

	ListShippingMethods(ctx context.Context, activeOnly bool) ([]ShippingMethodDTO, error)
	CreateShippingMethod(ctx context.Context, dto CreateShippingMethodDTO) (*ShippingMethodDTO, error)
	UpdateShippingMethod(ctx context.Context, id uuid.UUID, dto UpdateShippingMethodDTO) (*ShippingMethodDTO, error)
	DeleteShippingMethod(ctx context.Context, id uuid.UUID) error
}

type service struct {
	coupons  *CouponRepository
	shipping *ShippingMethodRepository
}

// ServiceParams bundles the promotions service dependencies.
type ServiceParams struct {
	Coupons  *CouponRepository
	Shipping *ShippingMethodRepository
}

// NewService constructs a promotions service.
func NewService(params ServiceParams) (Service, error) {
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon repository is required")
	}
	if params.Shipping == nil {
		return nil, fmt.Errorf("shipping method repository is required")
	}
	return &service{coupons: params.Coupons, shipping: params.Shipping}, nil
}

func (s *service) ListCoupons(ctx context.Context) ([]CouponDTO, error) {
	coupons, err := s.coupons.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list coupons")
	}
	dtos := make([]CouponDTO, 0, len(coupons))
	for i := range coupons {
		dtos = append(dtos, *couponFromModel(&coupons[i]))
	}
	return dtos, nil
}

func (s *service) GetCoupon(ctx context.Context, id uuid.UUID) (*CouponDTO, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load coupon")
	}
	return couponFromModel(coupon), nil
}

func (s *service) CreateCoupon(ctx context.Context, dto CreateCouponDTO) (*CouponDTO, error) {
	couponType, err := enums.ParseCouponType(dto.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon type")
	}
	if !dto.EndsAt.After(dto.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon window must end after it starts")
	}
	if dto.DiscountValue.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must not be negative")
	}

	code := NormalizeCode(dto.Code)
	if _, err := s.coupons.FindByCode(ctx, code); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check coupon code")
	}

	coupon := &models.Coupon{
		ID:                 uuid.New(),
		Code:               code,
		Type:               couponType,
		DiscountValue:      dto.DiscountValue,
		MinimumAmountCents: dto.MinimumAmountCents,
		MaximumAmountCents: dto.MaximumAmountCents,
		StartsAt:           dto.StartsAt,
		EndsAt:             dto.EndsAt,
		UsageLimit:         dto.UsageLimit,
		IsActive:           true,
	}
	if dto.IsActive != nil {
		coupon.IsActive = *dto.IsActive
	}

	created, err := s.coupons.Create(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create coupon")
	}
	return couponFromModel(created), nil
}

func (s *service) UpdateCoupon(ctx context.Context, id uuid.UUID, dto UpdateCouponDTO) (*CouponDTO, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load coupon")
	}

	if dto.DiscountValue != nil {
		if dto.DiscountValue.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must not be negative")
		}
		coupon.DiscountValue = *dto.DiscountValue
	}
	if dto.MinimumAmountCents != nil {
		coupon.MinimumAmountCents = *dto.MinimumAmountCents
	}
	if dto.MaximumAmountCents != nil {
		coupon.MaximumAmountCents = *dto.MaximumAmountCents
	}
	if dto.StartsAt != nil {
		coupon.StartsAt = *dto.StartsAt
	}
	if dto.EndsAt != nil {
		coupon.EndsAt = *dto.EndsAt
	}
	if !coupon.EndsAt.After(coupon.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon window must end after it starts")
	}
	if dto.UsageLimit != nil {
		coupon.UsageLimit = *dto.UsageLimit
	}
	if dto.IsActive != nil {
		coupon.IsActive = *dto.IsActive
	}

	updated, err := s.coupons.Update(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update coupon")
	}
	return couponFromModel(updated), nil
}

func (s *service) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	if _, err := s.coupons.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load coupon")
	}
	if err := s.coupons.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete coupon")
	}
	return nil
}

func (s *service) ListShippingMethods(ctx context.Context, activeOnly bool) ([]ShippingMethodDTO, error) {
	methods, err := s.shipping.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shipping methods")
	}
	dtos := make([]ShippingMethodDTO, 0, len(methods))
	for i := range methods {
		dtos = append(dtos, *shippingMethodFromModel(&methods[i]))
	}
	return dtos, nil
}

func (s *service) CreateShippingMethod(ctx context.Context, dto CreateShippingMethodDTO) (*ShippingMethodDTO, error) {
	name := strings.TrimSpace(dto.Name)
	if _, err := s.shipping.FindByName(ctx, name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "shipping method name already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check shipping method name")
	}

	method := &models.ShippingMethod{
		ID:          uuid.New(),
		Name:        name,
		ChargeCents: dto.ChargeCents,
		IsActive:    true,
	}
	if dto.IsActive != nil {
		method.IsActive = *dto.IsActive
	}

	created, err := s.shipping.Create(ctx, method)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shipping method")
	}
	return shippingMethodFromModel(created), nil
}

func (s *service) UpdateShippingMethod(ctx context.Context, id uuid.UUID, dto UpdateShippingMethodDTO) (*ShippingMethodDTO, error) {
	method, err := s.shipping.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipping method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipping method")
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if existing, err := s.shipping.FindByName(ctx, name); err == nil && existing.ID != id {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "shipping method name already in use")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check shipping method name")
		}
		method.Name = name
	}
	if dto.ChargeCents != nil {
		method.ChargeCents = *dto.ChargeCents
	}
	if dto.IsActive != nil {
		method.IsActive = *dto.IsActive
	}

	updated, err := s.shipping.Update(ctx, method)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shipping method")
	}
	return shippingMethodFromModel(updated), nil
}

func (s *service) DeleteShippingMethod(ctx context.Context, id uuid.UUID) error {
	if _, err := s.shipping.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shipping method not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipping method")
	}
	if err := s.shipping.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete shipping method")
	}
	return nil
}
