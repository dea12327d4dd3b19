package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	cartpkg "github.com/templhub/templhub-backend/internal/cart"
	"github.com/templhub/templhub-backend/pkg/db/models"
	"github.com/templhub/templhub-backend/pkg/enums"
	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
	"github.com/templhub/templhub-backend/pkg/outbox"
)

const createRetries = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service owns ticket submission and the admin lifecycle.
type Service interface {
	CreateFromCart(ctx context.Context, userID uuid.UUID, inquiry string) (*TicketDTO, error)
	List(ctx context.Context, params ListParams) ([]TicketDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TicketDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.TicketStatus) (*TicketDTO, error)
	Respond(ctx context.Context, id uuid.UUID, response string) (*TicketDTO, error)
}

type service struct {
	repo         *Repository
	cartRepo     *cartpkg.Repository
	tx           txRunner
	events       eventEmitter
	numberPrefix string
}

// NewService builds a ticket service backed by the provided stack.
func NewService(repo *Repository, cartRepo *cartpkg.Repository, tx txRunner, events eventEmitter, numberPrefix string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ticket repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		repo:         repo,
		cartRepo:     cartRepo,
		tx:           tx,
		events:       events,
		numberPrefix: numberPrefix,
	}, nil
}

// CreateFromCart turns the user's cart into an OPEN ticket in one
// transaction: copy the item snapshots, clear the cart, queue the
// ticket_created event. An empty cart or blank inquiry is rejected
// before anything is written.
func (s *service) CreateFromCart(ctx context.Context, userID uuid.UUID, inquiry string) (*TicketDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	inquiry = strings.TrimSpace(inquiry)
	if inquiry == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inquiry must not be blank")
	}

	var dto *TicketDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		record, err := cartRepo.GetOrCreateByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		ticket := &models.Ticket{
			UserID:  userID,
			Inquiry: inquiry,
			Status:  enums.TicketStatusOpen,
			Items:   make([]models.TicketItem, 0, len(record.Items)),
		}
		var totalCents int64
		for _, item := range record.Items {
			ticket.Items = append(ticket.Items, models.TicketItem{
				TemplateID:   item.TemplateID,
				Title:        item.Title,
				PriceCents:   item.PriceCents,
				CategoryName: item.CategoryName,
				Position:     item.Position,
			})
			totalCents += item.PriceCents
		}

		if err := s.createWithFreshNumber(ctx, tx, ticket); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating ticket")
		}

		if err := cartRepo.DeleteAllItems(ctx, record.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventTicketCreated,
			AggregateType: enums.AggregateTicket,
			AggregateID:   ticket.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: outbox.TicketCreatedPayload{
				TicketID:     ticket.ID,
				TicketNumber: ticket.TicketNumber,
				UserID:       userID,
				ItemCount:    len(ticket.Items),
				TotalCents:   totalCents,
			},
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording ticket event")
		}

		loaded, err := s.repo.WithTx(tx).GetByID(ctx, ticket.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading ticket")
		}
		dto = toTicketDTO(loaded)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) createWithFreshNumber(ctx context.Context, tx *gorm.DB, ticket *models.Ticket) error {
	repo := s.repo.WithTx(tx)
	var lastErr error
	for attempt := 0; attempt < createRetries; attempt++ {
		ticket.TicketNumber = NewTicketNumber(s.numberPrefix, time.Now())
		lastErr = repo.Create(ctx, ticket)
		if lastErr == nil {
			return nil
		}
		if !isTicketNumberCollision(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func isTicketNumberCollision(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "ticket_number") &&
		(strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed"))
}

func (s *service) List(ctx context.Context, params ListParams) ([]TicketDTO, error) {
	rows, err := s.repo.List(ctx, params.Normalize())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing tickets")
	}
	out := make([]TicketDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toTicketDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TicketDTO, error) {
	row, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTicketDTO(row), nil
}

// UpdateStatus applies one lifecycle transition. Illegal moves are
// rejected without touching the row.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.TicketStatus) (*TicketDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket status")
	}

	var dto *TicketDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ticket")
		}
		if row.Status == next {
			dto = toTicketDTO(row)
			return nil
		}
		if !row.Status.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cannot move ticket from %s to %s", row.Status, next))
		}
		if err := repo.UpdateStatus(ctx, id, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating ticket status")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventTicketStatusChanged,
			AggregateType: enums.AggregateTicket,
			AggregateID:   row.ID,
			Data: outbox.TicketStatusChangedPayload{
				TicketID:     row.ID,
				TicketNumber: row.TicketNumber,
				FromStatus:   row.Status.String(),
				ToStatus:     next.String(),
			},
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording status event")
		}

		row.Status = next
		dto = toTicketDTO(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Respond stores the admin's response text. Finalized tickets are
// frozen.
func (s *service) Respond(ctx context.Context, id uuid.UUID, response string) (*TicketDTO, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "response must not be blank")
	}

	row, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status == enums.TicketStatusFinalized {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "finalized tickets cannot be updated")
	}
	if err := s.repo.SetResponse(ctx, id, response); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing response")
	}
	row.AdminResponse = &response
	return toTicketDTO(row), nil
}

func (s *service) loadTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id is required")
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ticket")
	}
	return row, nil
}
