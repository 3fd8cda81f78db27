package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lucasbarrena/shoplane-backend/pkg/db/models"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:products_%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, priceCents int, active bool, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		IsActive:   active,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryGetByID(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	want := seedProduct(t, db, "Desk Lamp", 1000, true, time.Now())

	got, err := repo.GetByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, 1000, got.PriceCents)

	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListActiveSkipsInactive(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	now := time.Now()
	seedProduct(t, db, "Active", 1000, true, now)
	seedProduct(t, db, "Retired", 900, false, now.Add(-time.Minute))

	rows, next, err := repo.ListActive(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, rows, 1)
	assert.Equal(t, "Active", rows[0].Name)
}

func TestRepositoryListActivePagination(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedProduct(t, db, fmt.Sprintf("Product %d", i), 100*(i+1), true, base.Add(time.Duration(i)*time.Minute))
	}

	first, cursor, err := repo.ListActive(context.Background(), "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, cursor)
	// newest first
	assert.Equal(t, "Product 4", first[0].Name)

	second, _, err := repo.ListActive(context.Background(), cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "Product 2", second[0].Name)
}

func TestRepositoryUpdateMissingRow(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	err := repo.Update(context.Background(), uuid.New(), map[string]any{"name": "New"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	product := seedProduct(t, db, "Doomed", 100, true, time.Now())

	require.NoError(t, repo.Delete(context.Background(), product.ID))
	_, err := repo.GetByID(context.Background(), product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), product.ID), gorm.ErrRecordNotFound)
}
