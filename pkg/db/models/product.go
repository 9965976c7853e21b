package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/brightcart/storefront-backend/pkg/enums"
)

// Product represents the canonical catalog listing.
type Product struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BrandID              uuid.UUID           `gorm:"column:brand_id;type:uuid;not null;index"`
	CategoryID           uuid.UUID           `gorm:"column:category_id;type:uuid;not null;index"`
	SKU                  string              `gorm:"column:sku;not null;uniqueIndex"`
	Title                string              `gorm:"column:title;not null"`
	Description          *string             `gorm:"column:description"`
	PriceCents           int                 `gorm:"column:price_cents;not null"`
	DiscountedPriceCents *int                `gorm:"column:discounted_price_cents"`
	StockQty             int                 `gorm:"column:stock_qty;not null;default:0"`
	SoldCount            int                 `gorm:"column:sold_count;not null;default:0"`
	Status               enums.ProductStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	Tags                 pq.StringArray      `gorm:"column:tags;type:text[];default:ARRAY[]::text[]"`
	Images               pq.StringArray      `gorm:"column:images;type:text[];default:ARRAY[]::text[]"`
	Brand                *Brand              `gorm:"foreignKey:BrandID"`
	Category             *Category           `gorm:"foreignKey:CategoryID"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// UnitPriceCents returns the orderable price, preferring the discounted price
// when one is set.
func (p Product) UnitPriceCents() int {
	if p.DiscountedPriceCents != nil {
		return *p.DiscountedPriceCents
	}
	return p.PriceCents
}

// IsOrderable reports whether the listing can be added to an order.
func (p Product) IsOrderable() bool {
	return p.Status == enums.ProductStatusActive
}
