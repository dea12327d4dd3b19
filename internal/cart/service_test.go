package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/templhub/templhub-backend/pkg/db/models"
	"github.com/templhub/templhub-backend/pkg/enums"
	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
	"github.com/templhub/templhub-backend/pkg/outbox"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  template_id TEXT NOT NULL,
  title TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  category_name TEXT NOT NULL DEFAULT '',
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  UNIQUE (cart_id, template_id)
);`
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

type passthroughTx struct {
	db *gorm.DB
}

func (p passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(p.db)
}

type stubTemplateLoader struct {
	byID map[uuid.UUID]*models.Template
}

func (s *stubTemplateLoader) GetByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	row, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubTemplateLoader) add(title string, priceCents int64, status enums.TemplateStatus) *models.Template {
	row := &models.Template{
		ID:         uuid.New(),
		Title:      title,
		PriceCents: priceCents,
		Status:     status,
		Category:   &models.TemplateCategory{Name: "Portfolio"},
	}
	s.byID[row.ID] = row
	return row
}

type recordingEmitter struct {
	events []outbox.DomainEvent
}

func (r *recordingEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	r.events = append(r.events, event)
	return nil
}

func newTestService(t *testing.T) (Service, *stubTemplateLoader, *recordingEmitter) {
	t.Helper()
	db := setupCartTestDB(t)
	loader := &stubTemplateLoader{byID: map[uuid.UUID]*models.Template{}}
	emitter := &recordingEmitter{}
	svc, err := NewService(NewRepository(db), passthroughTx{db: db}, loader, emitter)
	require.NoError(t, err)
	return svc, loader, emitter
}

func TestGetCartCreatesLazily(t *testing.T) {
	svc, _, _ := newTestService(t)
	userID := uuid.New()

	dto, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, dto.ID)
	assert.Empty(t, dto.Items)
	assert.Equal(t, "0.00", dto.Total)

	again, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, again.ID)
}

func TestAddTemplatesIsIdempotentPerTemplate(t *testing.T) {
	svc, loader, _ := newTestService(t)
	userID := uuid.New()
	aurora := loader.add("Aurora", 4900, enums.TemplateStatusPublished)

	dto, err := svc.AddTemplates(context.Background(), userID, []uuid.UUID{aurora.ID})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, "Aurora", dto.Items[0].Title)
	assert.Equal(t, int64(4900), dto.TotalCents)

	dto, err = svc.AddTemplates(context.Background(), userID, []uuid.UUID{aurora.ID})
	require.NoError(t, err)
	assert.Len(t, dto.Items, 1)
	assert.Equal(t, int64(4900), dto.TotalCents)
}

func TestAddTemplatesRejectsUnpublished(t *testing.T) {
	svc, loader, _ := newTestService(t)
	userID := uuid.New()
	draft := loader.add("Basalt", 2900, enums.TemplateStatusDraft)

	_, err := svc.AddTemplates(context.Background(), userID, []uuid.UUID{draft.ID})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.AddTemplates(context.Background(), userID, []uuid.UUID{uuid.New()})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestAddTemplatesPreservesInsertionOrder(t *testing.T) {
	svc, loader, _ := newTestService(t)
	userID := uuid.New()
	aurora := loader.add("Aurora", 4900, enums.TemplateStatusPublished)
	basalt := loader.add("Basalt", 2900, enums.TemplateStatusPublished)
	cinder := loader.add("Cinder", 1900, enums.TemplateStatusPublished)

	_, err := svc.AddTemplates(context.Background(), userID, []uuid.UUID{basalt.ID})
	require.NoError(t, err)
	dto, err := svc.AddTemplates(context.Background(), userID, []uuid.UUID{aurora.ID, cinder.ID})
	require.NoError(t, err)

	require.Len(t, dto.Items, 3)
	assert.Equal(t, basalt.ID, dto.Items[0].TemplateID)
	assert.Equal(t, aurora.ID, dto.Items[1].TemplateID)
	assert.Equal(t, cinder.ID, dto.Items[2].TemplateID)
	assert.Equal(t, int64(9700), dto.TotalCents)
}

func TestRemoveTemplateAbsentIsNoOp(t *testing.T) {
	svc, loader, _ := newTestService(t)
	userID := uuid.New()
	aurora := loader.add("Aurora", 4900, enums.TemplateStatusPublished)

	_, err := svc.AddTemplates(context.Background(), userID, []uuid.UUID{aurora.ID})
	require.NoError(t, err)

	dto, err := svc.RemoveTemplate(context.Background(), userID, uuid.New())
	require.NoError(t, err)
	assert.Len(t, dto.Items, 1)

	dto, err = svc.RemoveTemplate(context.Background(), userID, aurora.ID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}

func TestClearEmitsEventOnlyWhenCartHadItems(t *testing.T) {
	svc, loader, emitter := newTestService(t)
	userID := uuid.New()

	dto, err := svc.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
	assert.Empty(t, emitter.events)

	aurora := loader.add("Aurora", 4900, enums.TemplateStatusPublished)
	_, err = svc.AddTemplates(context.Background(), userID, []uuid.UUID{aurora.ID})
	require.NoError(t, err)

	dto, err = svc.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
	require.Len(t, emitter.events, 1)
	assert.Equal(t, enums.EventCartCleared, emitter.events[0].EventType)
	assert.Equal(t, enums.AggregateCart, emitter.events[0].AggregateType)
}

func TestCartOperationsRequireUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetCart(context.Background(), uuid.Nil)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))

	_, err = svc.AddTemplates(context.Background(), uuid.New(), nil)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
