package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/templhub/templhub-backend/pkg/db/models"
	"github.com/templhub/templhub-backend/pkg/enums"
	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
	"github.com/templhub/templhub-backend/pkg/types"
)

// TemplateDTO is the catalog entry shape returned by the API.
type TemplateDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	DemoURL     *string   `json:"demoUrl,omitempty"`
	MediaURLs   []string  `json:"mediaUrls"`
	Rating      float64   `json:"rating"`
}

// CategoryDTO is a browsable catalog grouping.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type catalogRepository interface {
	ListPublished(ctx context.Context, params ListParams) ([]models.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	ListCategories(ctx context.Context) ([]models.TemplateCategory, error)
}

// Service exposes the public template catalog.
type Service interface {
	List(ctx context.Context, params ListParams) ([]TemplateDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TemplateDTO, error)
	Categories(ctx context.Context) ([]CategoryDTO, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]TemplateDTO, error) {
	rows, err := s.repo.ListPublished(ctx, params.Normalize())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing templates")
	}
	out := make([]TemplateDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TemplateDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading template")
	}
	if row.Status != enums.TemplateStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategoryDTO{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func toDTO(row *models.Template) TemplateDTO {
	dto := TemplateDTO{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		PriceCents:  row.PriceCents,
		Price:       types.DisplayAmount(row.PriceCents),
		DemoURL:     row.DemoURL,
		MediaURLs:   row.MediaURLs,
		Rating:      row.Rating,
	}
	if row.Category != nil {
		dto.Category = row.Category.Name
	}
	if dto.MediaURLs == nil {
		dto.MediaURLs = []string{}
	}
	return dto
}
