package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem captures the snapshot of each product within an order. Unit price
// is copied at purchase time and never re-read from the catalog.
type OrderItem struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Name           string            `gorm:"column:name;not null"`
	SKU            string            `gorm:"column:sku;not null"`
	Image          *string           `gorm:"column:image"`
	UnitPriceCents int               `gorm:"column:unit_price_cents;not null"`
	Qty            int               `gorm:"column:qty;not null"`
	TotalCents     int               `gorm:"column:total_cents;not null"`
	Attributes     map[string]string `gorm:"column:attributes;type:jsonb;serializer:json"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
}
