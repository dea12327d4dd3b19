package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem stores a display snapshot of a template taken at add time.
// The template id is unique within a cart; re-adding is idempotent.
type CartItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID       uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_template"`
	TemplateID   uuid.UUID `gorm:"column:template_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_template"`
	Title        string    `gorm:"column:title;not null"`
	PriceCents   int64     `gorm:"column:price_cents;not null"`
	CategoryName string    `gorm:"column:category_name;not null;default:''"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
