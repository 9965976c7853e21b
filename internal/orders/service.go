package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/internal/cart"
	"github.com/brightcart/storefront-backend/internal/catalog"
	"github.com/brightcart/storefront-backend/internal/promotions"
	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/brightcart/storefront-backend/pkg/logger"
	"github.com/brightcart/storefront-backend/pkg/pagination"
)

// Service composes and reads orders.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, dto SubmitOrderDTO) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*pagination.Page[OrderDTO], error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)

	ListAll(ctx context.Context, input ListOrdersInput) (*pagination.Page[OrderDTO], error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, dto UpdateStatusDTO) (*OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx       txRunner
	orders   *Repository
	products *catalog.ProductRepository
	coupons  *promotions.CouponRepository
	shipping *promotions.ShippingMethodRepository
	carts    *cart.Repository
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Tx       txRunner
	Orders   *Repository
	Products *catalog.ProductRepository
	Coupons  *promotions.CouponRepository
	Shipping *promotions.ShippingMethodRepository
	Carts    *cart.Repository
	Logger   *logger.Logger
}

// NewService constructs an order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon repository is required")
	}
	if params.Shipping == nil {
		return nil, fmt.Errorf("shipping method repository is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		tx:       params.Tx,
		orders:   params.Orders,
		products: params.Products,
		coupons:  params.Coupons,
		shipping: params.Shipping,
		carts:    params.Carts,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// Submit validates the requested lines, prices the order, and writes the
// order, its items, the stock decrements, and any coupon redemption in one
// transaction. Duplicate submissions create separate orders; there is no
// idempotency key.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, dto SubmitOrderDTO) (*OrderDTO, error) {
	if len(dto.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, item := range dto.Items {
		if item.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
	}
	if err := dto.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
	}
	shippingAddress := dto.ShippingAddress.Normalized()
	billingAddress := shippingAddress
	if dto.BillingAddress != nil {
		if err := dto.BillingAddress.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing address")
		}
		billingAddress = dto.BillingAddress.Normalized()
	}

	var orderID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)
		couponsRepo := s.coupons.WithTx(tx)

		subtotal := 0
		items := make([]models.OrderItem, 0, len(dto.Items))
		for _, requested := range dto.Items {
			product, err := products.FindByID(ctx, requested.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, "product not available").
						WithDetails(map[string]any{"product_id": requested.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}
			if !product.IsOrderable() {
				return pkgerrors.New(pkgerrors.CodeValidation, "product not available").
					WithDetails(map[string]any{"product_id": product.ID})
			}
			if requested.Qty > product.StockQty {
				return insufficientStock(product)
			}

			unitPrice := product.UnitPriceCents()
			lineTotal := unitPrice * requested.Qty
			subtotal += lineTotal

			var image *string
			if len(product.Images) > 0 {
				first := product.Images[0]
				image = &first
			}
			items = append(items, models.OrderItem{
				ID:             uuid.New(),
				ProductID:      product.ID,
				Name:           product.Title,
				SKU:            product.SKU,
				Image:          image,
				UnitPriceCents: unitPrice,
				Qty:            requested.Qty,
				TotalCents:     lineTotal,
				Attributes:     requested.Attributes,
			})
		}

		// Shipping methods and coupons degrade rather than block: a method
		// that does not resolve ships at no charge, and a coupon that fails
		// redemption leaves the order undiscounted.
		shippingCharge := 0
		var shippingMethodID *uuid.UUID
		if dto.ShippingMethodID != nil {
			method, err := s.shipping.FindByID(ctx, *dto.ShippingMethodID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				s.logg.Warn(s.logg.WithField(ctx, "shipping_method_id", dto.ShippingMethodID.String()),
					"order.shipping_method_unresolved")
			case err != nil:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipping method")
			case !method.IsActive:
				s.logg.Warn(s.logg.WithField(ctx, "shipping_method_id", method.ID.String()),
					"order.shipping_method_inactive")
			default:
				shippingCharge = method.ChargeCents
				shippingMethodID = &method.ID
			}
		}

		discount := 0
		var coupon *models.Coupon
		if dto.CouponCode != nil && strings.TrimSpace(*dto.CouponCode) != "" {
			code := promotions.NormalizeCode(*dto.CouponCode)
			found, err := couponsRepo.FindByCode(ctx, code)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				s.logg.Warn(s.logg.WithField(ctx, "coupon_code", code), "order.coupon_unknown")
			case err != nil:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load coupon")
			default:
				if redeemErr := promotions.ValidateRedemption(found, subtotal, s.now()); redeemErr != nil {
					s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
						"coupon_code": code,
						"reason":      redeemErr.Error(),
					}), "order.coupon_rejected")
				} else {
					discount = promotions.DiscountCents(found, subtotal)
					coupon = found
				}
			}
		}

		order := &models.Order{
			ID:                  uuid.New(),
			UserID:              userID,
			OrderNumber:         s.newOrderNumber(),
			Status:              enums.OrderStatusPending,
			PaymentStatus:       enums.PaymentStatusPending,
			SubtotalCents:       subtotal,
			ShippingChargeCents: shippingCharge,
			CouponDiscountCents: discount,
			TotalCents:          subtotal + shippingCharge - discount,
			ShippingMethodID:    shippingMethodID,
			ShippingAddress:     shippingAddress,
			BillingAddress:      billingAddress,
			Items:               items,
		}
		if coupon != nil {
			order.CouponID = &coupon.ID
		}

		if _, err := ordersRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		for _, item := range items {
			affected, err := products.DecrementStock(ctx, item.ProductID, item.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
					WithDetails(map[string]any{"product_id": item.ProductID})
			}
		}

		if coupon != nil {
			applied := &models.AppliedCoupon{
				ID:            uuid.New(),
				UserID:        userID,
				OrderID:       order.ID,
				CouponID:      coupon.ID,
				DiscountCents: discount,
			}
			if err := ordersRepo.CreateAppliedCoupon(ctx, applied); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record coupon redemption")
			}
			if err := couponsRepo.IncrementUsage(ctx, coupon.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment coupon usage")
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// cart cleanup after commit is best effort; the order already exists
	if err := s.carts.ClearByOwner(ctx, cart.UserOwner(userID)); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": orderID.String(),
			"user_id":  userID.String(),
			"error":    err.Error(),
		})
		s.logg.Warn(logCtx, "order.cart_clear_failed")
	}

	return s.Get(ctx, orderID)
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*pagination.Page[OrderDTO], error) {
	orders, total, err := s.orders.ListForUser(ctx, userID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return orderPage(orders, total, input.Pagination), nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.orders.FindForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return orderFromModel(order), nil
}

func (s *service) ListAll(ctx context.Context, input ListOrdersInput) (*pagination.Page[OrderDTO], error) {
	orders, total, err := s.orders.ListAll(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return orderPage(orders, total, input.Pagination), nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return orderFromModel(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, dto UpdateStatusDTO) (*OrderDTO, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	status, err := enums.ParseOrderStatus(dto.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order.Status = status

	if dto.PaymentStatus != nil {
		paymentStatus, err := enums.ParsePaymentStatus(*dto.PaymentStatus)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
		order.PaymentStatus = paymentStatus
	}

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	return s.Get(ctx, orderID)
}

// newOrderNumber builds a human-scannable number from a coarse timestamp and
// a random token. Uniqueness is enforced by the order_number index.
func (s *service) newOrderNumber() string {
	token := make([]byte, 4)
	if _, err := rand.Read(token); err != nil {
		token = []byte(uuid.NewString()[:4])
	}
	return fmt.Sprintf("BC-%s-%s", s.now().UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(token)))
}

func orderPage(orders []models.Order, total int64, params pagination.Params) *pagination.Page[OrderDTO] {
	items := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		items = append(items, *orderFromModel(&orders[i]))
	}
	page := pagination.NewPage(items, total, params)
	return &page
}

func insufficientStock(product *models.Product) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
		WithDetails(map[string]any{
			"product_id": product.ID,
			"available":  product.StockQty,
		})
}
