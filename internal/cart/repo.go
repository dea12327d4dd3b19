package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/templhub/templhub-backend/pkg/db"
	"github.com/templhub/templhub-backend/pkg/db/models"
)

// Repository exposes persistence operations for user carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
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

// GetOrCreateByUser returns the user's cart, creating it lazily. Items
// are loaded in insertion order.
func (r *Repository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	record, err := r.findByUser(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record = &models.Cart{ID: uuid.New(), UserID: userID}
	if createErr := r.db.WithContext(ctx).Create(record).Error; createErr != nil {
		// another request created the cart first
		if dbpkg.IsUniqueViolation(createErr, "") {
			return r.findByUser(ctx, userID)
		}
		return nil, createErr
	}
	record.Items = []models.CartItem{}
	return record, nil
}

func (r *Repository) findByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var record models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		}).
		Where("user_id = ?", userID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Reload re-reads the cart by id with ordered items.
func (r *Repository) Reload(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var record models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// InsertItem adds a snapshot row to the cart. Returns false without
// error when the template is already present.
func (r *Repository) InsertItem(ctx context.Context, item *models.CartItem) (bool, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(item).Error
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NextPosition returns the insertion position for the next item.
func (r *Repository) NextPosition(ctx context.Context, cartID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// DeleteItem removes one template from the cart. Absent rows are a no-op.
func (r *Repository) DeleteItem(ctx context.Context, cartID, templateID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND template_id = ?", cartID, templateID).
		Delete(&models.CartItem{}).Error
}

// DeleteAllItems empties the cart.
func (r *Repository) DeleteAllItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
