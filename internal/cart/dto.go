package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/pkg/db/models"
)

// AddItemDTO is the payload to add a product to the cart.
type AddItemDTO struct {
	ProductID  uuid.UUID         `json:"product_id" validate:"required"`
	Qty        int               `json:"qty" validate:"required,gt=0"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// UpdateItemDTO sets the absolute quantity on an existing line.
type UpdateItemDTO struct {
	Qty int `json:"qty" validate:"required,gt=0"`
}

// LineDTO is one cart entry joined with its product snapshot.
type LineDTO struct {
	ID             uuid.UUID         `json:"id"`
	ProductID      uuid.UUID         `json:"product_id"`
	Title          string            `json:"title"`
	SKU            string            `json:"sku"`
	UnitPriceCents int               `json:"unit_price_cents"`
	Qty            int               `json:"qty"`
	LineTotalCents int               `json:"line_total_cents"`
	StockQty       int               `json:"stock_qty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CartDTO is the full cart view with computed totals.
type CartDTO struct {
	Items         []LineDTO `json:"items"`
	ItemCount     int       `json:"item_count"`
	SubtotalCents int       `json:"subtotal_cents"`
}

func lineFromModel(line *models.CartLine) LineDTO {
	dto := LineDTO{
		ID:         line.ID,
		ProductID:  line.ProductID,
		Qty:        line.Qty,
		Attributes: line.Attributes,
		CreatedAt:  line.CreatedAt,
		UpdatedAt:  line.UpdatedAt,
	}
	if line.Product != nil {
		dto.Title = line.Product.Title
		dto.SKU = line.Product.SKU
		dto.UnitPriceCents = line.Product.UnitPriceCents()
		dto.StockQty = line.Product.StockQty
		dto.LineTotalCents = dto.UnitPriceCents * line.Qty
	}
	return dto
}

func cartFromLines(lines []models.CartLine) *CartDTO {
	cart := &CartDTO{Items: make([]LineDTO, 0, len(lines))}
	for i := range lines {
		item := lineFromModel(&lines[i])
		cart.Items = append(cart.Items, item)
		cart.ItemCount += item.Qty
		cart.SubtotalCents += item.LineTotalCents
	}
	return cart
}
