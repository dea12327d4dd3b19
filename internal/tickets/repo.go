package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/templhub/templhub-backend/pkg/db/models"
	"github.com/templhub/templhub-backend/pkg/enums"
)

// ListParams narrows the admin ticket listing.
type ListParams struct {
	Status *enums.TicketStatus
	UserID *uuid.UUID
	Limit  int
	Offset int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Normalize applies listing defaults.
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 || p.Limit > maxListLimit {
		p.Limit = defaultListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Repository exposes persistence operations for customization tickets.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ticket repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the ticket with its item snapshots.
func (r *Repository) Create(ctx context.Context, ticket *models.Ticket) error {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	for i := range ticket.Items {
		if ticket.Items[i].ID == uuid.Nil {
			ticket.Items[i].ID = uuid.New()
		}
		ticket.Items[i].TicketID = ticket.ID
	}
	return r.db.WithContext(ctx).Create(ticket).Error
}

// GetByID loads one ticket with items in snapshot order.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var row models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns tickets newest first, optionally filtered by status or user.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.Ticket, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		})
	if params.Status != nil {
		q = q.Where("status = ?", *params.Status)
	}
	if params.UserID != nil {
		q = q.Where("user_id = ?", *params.UserID)
	}

	var rows []models.Ticket
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus persists a lifecycle transition.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TicketStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// SetResponse stores the admin's response text.
func (r *Repository) SetResponse(ctx context.Context, id uuid.UUID, response string) error {
	return r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", id).
		Update("admin_response", response).Error
}
