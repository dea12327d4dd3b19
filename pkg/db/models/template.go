package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/templhub/templhub-backend/pkg/enums"
)

// Template represents a sellable website template listing.
type Template struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string               `gorm:"column:title;not null"`
	Description string               `gorm:"column:description;not null;default:''"`
	PriceCents  int64                `gorm:"column:price_cents;not null"`
	Status      enums.TemplateStatus `gorm:"column:status;type:template_status;not null;default:'draft'"`
	CategoryID  uuid.UUID            `gorm:"column:category_id;type:uuid;not null"`
	Category    *TemplateCategory    `gorm:"foreignKey:CategoryID"`
	DemoURL     *string              `gorm:"column:demo_url"`
	MediaURLs   pq.StringArray       `gorm:"column:media_urls;type:text[]"`
	Rating      float64              `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TemplateCategory is the curated grouping templates are browsed by.
type TemplateCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
