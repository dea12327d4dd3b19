package tickets

import (
	"time"

	"github.com/google/uuid"

	"github.com/templhub/templhub-backend/pkg/db/models"
	"github.com/templhub/templhub-backend/pkg/enums"
	"github.com/templhub/templhub-backend/pkg/types"
)

// TicketDTO is the full ticket snapshot returned by the API.
type TicketDTO struct {
	ID            uuid.UUID          `json:"id"`
	TicketNumber  string             `json:"ticketNumber"`
	UserID        uuid.UUID          `json:"userId"`
	Status        enums.TicketStatus `json:"status"`
	Inquiry       string             `json:"inquiry"`
	AdminResponse *string            `json:"adminResponse,omitempty"`
	Items         []TicketItemDTO    `json:"items"`
	TotalCents    int64              `json:"totalCents"`
	Total         string             `json:"total"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// TicketItemDTO is the template snapshot frozen at submission time.
type TicketItemDTO struct {
	TemplateID uuid.UUID `json:"templateId"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"priceCents"`
	Price      string    `json:"price"`
	Category   string    `json:"category"`
}

func toTicketDTO(row *models.Ticket) *TicketDTO {
	dto := &TicketDTO{
		ID:            row.ID,
		TicketNumber:  row.TicketNumber,
		UserID:        row.UserID,
		Status:        row.Status,
		Inquiry:       row.Inquiry,
		AdminResponse: row.AdminResponse,
		Items:         make([]TicketItemDTO, 0, len(row.Items)),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	for _, item := range row.Items {
		dto.Items = append(dto.Items, TicketItemDTO{
			TemplateID: item.TemplateID,
			Title:      item.Title,
			PriceCents: item.PriceCents,
			Price:      types.DisplayAmount(item.PriceCents),
			Category:   item.CategoryName,
		})
		dto.TotalCents += item.PriceCents
	}
	dto.Total = types.DisplayAmount(dto.TotalCents)
	return dto
}
