package cart

import (
	"github.com/google/uuid"

	"github.com/templhub/templhub-backend/pkg/db/models"
	"github.com/templhub/templhub-backend/pkg/types"
)

// CartDTO is the full cart snapshot returned by every cart endpoint.
type CartDTO struct {
	ID         uuid.UUID     `json:"id"`
	Items      []CartItemDTO `json:"items"`
	ItemCount  int           `json:"itemCount"`
	TotalCents int64         `json:"totalCents"`
	Total      string        `json:"total"`
}

// CartItemDTO is the display snapshot stored at add time.
type CartItemDTO struct {
	TemplateID uuid.UUID `json:"templateId"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"priceCents"`
	Price      string    `json:"price"`
	Category   string    `json:"category"`
}

func toCartDTO(record *models.Cart) *CartDTO {
	dto := &CartDTO{
		ID:    record.ID,
		Items: make([]CartItemDTO, 0, len(record.Items)),
	}
	for _, item := range record.Items {
		dto.Items = append(dto.Items, CartItemDTO{
			TemplateID: item.TemplateID,
			Title:      item.Title,
			PriceCents: item.PriceCents,
			Price:      types.DisplayAmount(item.PriceCents),
			Category:   item.CategoryName,
		})
		dto.TotalCents += item.PriceCents
	}
	dto.ItemCount = len(dto.Items)
	dto.Total = types.DisplayAmount(dto.TotalCents)
	return dto
}
