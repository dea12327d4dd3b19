package templates

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/templhub/templhub-backend/pkg/db/models"
	"github.com/templhub/templhub-backend/pkg/enums"
	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
)

type stubCatalogRepo struct {
	listed     []models.Template
	byID       map[uuid.UUID]*models.Template
	lastParams ListParams
}

func (s *stubCatalogRepo) ListPublished(_ context.Context, params ListParams) ([]models.Template, error) {
	s.lastParams = params
	return s.listed, nil
}

func (s *stubCatalogRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	row, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubCatalogRepo) ListCategories(context.Context) ([]models.TemplateCategory, error) {
	return nil, nil
}

func TestListNormalizesParams(t *testing.T) {
	t.Parallel()

	repo := &stubCatalogRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.List(context.Background(), ListParams{Category: "All", Sort: "bogus", Limit: -3}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastParams.Category != "" {
		t.Fatalf("expected All category to be cleared, got %q", repo.lastParams.Category)
	}
	if repo.lastParams.Sort != SortNameAsc {
		t.Fatalf("expected default sort, got %q", repo.lastParams.Sort)
	}
	if repo.lastParams.Limit != defaultListLimit {
		t.Fatalf("expected default limit, got %d", repo.lastParams.Limit)
	}
}

func TestListFormatsDisplayPrice(t *testing.T) {
	t.Parallel()

	repo := &stubCatalogRepo{
		listed: []models.Template{{
			ID:         uuid.New(),
			Title:      "Aurora",
			PriceCents: 4900,
			Status:     enums.TemplateStatusPublished,
			Category:   &models.TemplateCategory{Name: "Portfolio"},
		}},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	out, err := svc.List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 template, got %d", len(out))
	}
	if out[0].Price != "49.00" {
		t.Fatalf("expected display price 49.00, got %q", out[0].Price)
	}
	if out[0].Category != "Portfolio" {
		t.Fatalf("expected category name, got %q", out[0].Category)
	}
	if out[0].MediaURLs == nil {
		t.Fatal("expected media urls to serialize as empty list")
	}
}

func TestGetHidesUnpublished(t *testing.T) {
	t.Parallel()

	draft := &models.Template{ID: uuid.New(), Title: "Basalt", Status: enums.TemplateStatusDraft}
	repo := &stubCatalogRepo{byID: map[uuid.UUID]*models.Template{draft.ID: draft}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Get(context.Background(), draft.ID)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing id, got %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.Nil)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for nil id, got %v", err)
	}
}
