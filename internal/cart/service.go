package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/templhub/templhub-backend/pkg/db/models"
	"github.com/templhub/templhub-backend/pkg/enums"
	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
	"github.com/templhub/templhub-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type templateLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the server-side cart operations. Every mutation
// returns the full cart snapshot.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddTemplates(ctx context.Context, userID uuid.UUID, templateIDs []uuid.UUID) (*CartDTO, error)
	RemoveTemplate(ctx context.Context, userID, templateID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo      *Repository
	tx        txRunner
	templates templateLoader
	events    eventEmitter
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, templates templateLoader, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if templates == nil {
		return nil, fmt.Errorf("template loader required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, tx: tx, templates: templates, events: events}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	record, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return toCartDTO(record), nil
}

// AddTemplates adds every requested template to the cart, skipping ids
// already present. Each template must exist and be published.
func (s *service) AddTemplates(ctx context.Context, userID uuid.UUID, templateIDs []uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	if len(templateIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one template id is required")
	}
	for _, id := range templateIDs {
		if id == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
		}
	}

	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.GetOrCreateByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}

		position, err := repo.NextPosition(ctx, record.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing position")
		}

		for _, templateID := range templateIDs {
			snapshot, err := s.loadPublished(ctx, templateID)
			if err != nil {
				return err
			}
			inserted, err := repo.InsertItem(ctx, &models.CartItem{
				CartID:       record.ID,
				TemplateID:   templateID,
				Title:        snapshot.Title,
				PriceCents:   snapshot.PriceCents,
				CategoryName: categoryName(snapshot),
				Position:     position,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
			}
			if inserted {
				position++
			}
		}

		record, err = repo.Reload(ctx, record.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart")
		}
		dto = toCartDTO(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// RemoveTemplate drops one template from the cart. Removing an absent
// template returns the current cart unchanged.
func (s *service) RemoveTemplate(ctx context.Context, userID, templateID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	if templateID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}

	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.GetOrCreateByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if err := repo.DeleteItem(ctx, record.ID, templateID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
		}
		record, err = repo.Reload(ctx, record.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart")
		}
		dto = toCartDTO(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Clear empties the cart and records a cart_cleared event in the same
// transaction.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}

	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.GetOrCreateByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}

		hadItems := len(record.Items) > 0
		if err := repo.DeleteAllItems(ctx, record.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}

		if hadItems {
			event := outbox.DomainEvent{
				EventType:     enums.EventCartCleared,
				AggregateType: enums.AggregateCart,
				AggregateID:   record.ID,
				Actor:         &outbox.ActorRef{UserID: userID},
				Data: outbox.CartClearedPayload{
					CartID: record.ID,
					UserID: userID,
					Reason: "user_cleared",
				},
			}
			if err := s.events.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording cart event")
			}
		}

		record.Items = nil
		dto = toCartDTO(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) loadPublished(ctx context.Context, templateID uuid.UUID) (*models.Template, error) {
	row, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "template not available").
				WithDetails(map[string]string{"templateId": templateID.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading template")
	}
	if row.Status != enums.TemplateStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template not available").
			WithDetails(map[string]string{"templateId": templateID.String()})
	}
	return row, nil
}

func categoryName(row *models.Template) string {
	if row.Category != nil {
		return row.Category.Name
	}
	return ""
}
