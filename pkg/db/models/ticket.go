package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/templhub/templhub-backend/pkg/enums"
)

// Ticket bundles the templates copied from a cart with the user's
// customization inquiry. Created only through ticket submission; the
// originating cart is cleared in the same transaction.
type Ticket struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TicketNumber  string             `gorm:"column:ticket_number;not null;uniqueIndex"`
	UserID        uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	Inquiry       string             `gorm:"column:inquiry;not null"`
	AdminResponse *string            `gorm:"column:admin_response"`
	Status        enums.TicketStatus `gorm:"column:status;type:ticket_status;not null;default:'open'"`
	Items         []TicketItem       `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TicketItem is the template snapshot carried over from the cart at
// submission time.
type TicketItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TicketID     uuid.UUID `gorm:"column:ticket_id;type:uuid;not null;index"`
	TemplateID   uuid.UUID `gorm:"column:template_id;type:uuid;not null"`
	Title        string    `gorm:"column:title;not null"`
	PriceCents   int64     `gorm:"column:price_cents;not null"`
	CategoryName string    `gorm:"column:category_name;not null;default:''"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
