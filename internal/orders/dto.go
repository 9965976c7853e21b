package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	"github.com/brightcart/storefront-backend/pkg/pagination"
	"github.com/brightcart/storefront-backend/pkg/types"
)

// SubmitItemDTO is one requested order line.
type SubmitItemDTO struct {
	ProductID  uuid.UUID         `json:"product_id" validate:"required"`
	Qty        int               `json:"qty" validate:"required,gt=0"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// SubmitOrderDTO is the checkout payload.
type SubmitOrderDTO struct {
	Items            []SubmitItemDTO `json:"items" validate:"required,min=1,dive"`
	ShippingMethodID *uuid.UUID      `json:"shipping_method_id,omitempty"`
	CouponCode       *string         `json:"coupon_code,omitempty"`
	ShippingAddress  types.Address   `json:"shipping_address"`
	BillingAddress   *types.Address  `json:"billing_address,omitempty"`
}

// ItemDTO is an order line snapshot.
type ItemDTO struct {
	ID             uuid.UUID         `json:"id"`
	ProductID      uuid.UUID         `json:"product_id"`
	Name           string            `json:"name"`
	SKU            string            `json:"sku"`
	Image          *string           `json:"image,omitempty"`
	UnitPriceCents int               `json:"unit_price_cents"`
	Qty            int               `json:"qty"`
	TotalCents     int               `json:"total_cents"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}

// OrderDTO is the hydrated order returned from submission and reads.
type OrderDTO struct {
	ID                  uuid.UUID           `json:"id"`
	UserID              uuid.UUID           `json:"user_id"`
	OrderNumber         string              `json:"order_number"`
	Status              enums.OrderStatus   `json:"status"`
	PaymentStatus       enums.PaymentStatus `json:"payment_status"`
	SubtotalCents       int                 `json:"subtotal_cents"`
	ShippingChargeCents int                 `json:"shipping_charge_cents"`
	CouponDiscountCents int                 `json:"coupon_discount_cents"`
	TotalCents          int                 `json:"total_cents"`
	CouponCode          *string             `json:"coupon_code,omitempty"`
	ShippingAddress     types.Address       `json:"shipping_address"`
	BillingAddress      types.Address       `json:"billing_address"`
	Items               []ItemDTO           `json:"items"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ListOrdersInput filters and paginates order listings.
type ListOrdersInput struct {
	Status     *enums.OrderStatus
	Pagination pagination.Params
}

// UpdateStatusDTO is the admin payload to advance an order.
type UpdateStatusDTO struct {
	Status        string  `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed refunded"`
}

func orderFromModel(o *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                  o.ID,
		UserID:              o.UserID,
		OrderNumber:         o.OrderNumber,
		Status:              o.Status,
		PaymentStatus:       o.PaymentStatus,
		SubtotalCents:       o.SubtotalCents,
		ShippingChargeCents: o.ShippingChargeCents,
		CouponDiscountCents: o.CouponDiscountCents,
		TotalCents:          o.TotalCents,
		ShippingAddress:     o.ShippingAddress,
		BillingAddress:      o.BillingAddress,
		Items:               make([]ItemDTO, 0, len(o.Items)),
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
	if o.Coupon != nil {
		code := o.Coupon.Code
		dto.CouponCode = &code
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			SKU:            item.SKU,
			Image:          item.Image,
			UnitPriceCents: item.UnitPriceCents,
			Qty:            item.Qty,
			TotalCents:     item.TotalCents,
			Attributes:     item.Attributes,
		})
	}
	return dto
}
