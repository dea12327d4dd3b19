package templates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/templhub/templhub-backend/pkg/db/models"
	"github.com/templhub/templhub-backend/pkg/enums"
)

// Repository exposes persistence operations for the template catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
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

// ListPublished returns published templates matching the normalized params.
func (r *Repository) ListPublished(ctx context.Context, params ListParams) ([]models.Template, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Template{}).
		Preload("Category").
		Where("templates.status = ?", enums.TemplateStatusPublished)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		q = q.Where("LOWER(templates.title) LIKE LOWER(?) OR LOWER(templates.description) LIKE LOWER(?)", pattern, pattern)
	}
	if params.Category != "" {
		q = q.Joins("JOIN template_categories ON template_categories.id = templates.category_id").
			Where("template_categories.name = ?", params.Category)
	}

	switch params.Sort {
	case SortPriceAsc:
		q = q.Order("templates.price_cents ASC").Order("templates.id ASC")
	case SortRatingDesc:
		q = q.Order("templates.rating DESC").Order("templates.id ASC")
	default:
		q = q.Order("templates.title ASC").Order("templates.id ASC")
	}

	var rows []models.Template
	if err := q.Limit(params.Limit).Offset(params.Offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID loads one template with its category.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var row models.Template
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.TemplateCategory, error) {
	var rows []models.TemplateCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
