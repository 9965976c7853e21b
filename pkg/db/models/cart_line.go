package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one product entry in a user or guest cart. Exactly one of
// UserID and SessionID is set; the pair (owner, product) is unique.
type CartLine struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     *uuid.UUID        `gorm:"column:user_id;type:uuid;index;uniqueIndex:cart_lines_user_product_key,where:user_id IS NOT NULL"`
	SessionID  *uuid.UUID        `gorm:"column:session_id;type:uuid;index;uniqueIndex:cart_lines_session_product_key,where:session_id IS NOT NULL"`
	ProductID  uuid.UUID         `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_lines_user_product_key;uniqueIndex:cart_lines_session_product_key"`
	Qty        int               `gorm:"column:qty;not null"`
	Attributes map[string]string `gorm:"column:attributes;type:jsonb;serializer:json"`
	Product    *Product          `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
