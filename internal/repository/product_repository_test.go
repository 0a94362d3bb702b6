package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/smartpos/pos-engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productFixture(name string, price, qty int64, categoryID *int64) *model.Product {
	return &model.Product{
		Name:       name,
		Price:      price,
		Qty:        qty,
		CategoryID: categoryID,
	}
}

func strPtr(s string) *string { return &s }

func TestProductRepository_List(t *testing.T) {
	db := setupTestDB(t)
	categories := NewCategoryRepository(db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	catID, err := categories.Create(ctx, "Drinks")
	require.NoError(t, err)

	coffee := productFixture("Coffee", 15000, 10, &catID)
	coffee.Barcode = strPtr("8991002100015")
	_, err = repo.Create(ctx, coffee)
	require.NoError(t, err)

	_, err = repo.Create(ctx, productFixture("Croissant", 12000, 5, nil))
	require.NoError(t, err)

	t.Run("newest first with category name", func(t *testing.T) {
		rows, total, err := repo.List(ctx, model.ProductQuery{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, rows, 2)
		assert.Equal(t, "Croissant", rows[0].Name)
		assert.Equal(t, "Coffee", rows[1].Name)
		require.NotNil(t, rows[1].CategoryName)
		assert.Equal(t, "Drinks", *rows[1].CategoryName)
		assert.Nil(t, rows[0].CategoryName)
	})

	t.Run("search matches name", func(t *testing.T) {
		rows, total, err := repo.List(ctx, model.ProductQuery{Search: "cof", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "Coffee", rows[0].Name)
	})

	t.Run("search matches barcode", func(t *testing.T) {
		rows, total, err := repo.List(ctx, model.ProductQuery{Search: "8991002", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "Coffee", rows[0].Name)
	})

	t.Run("category filter", func(t *testing.T) {
		rows, total, err := repo.List(ctx, model.ProductQuery{CategoryID: &catID, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "Coffee", rows[0].Name)
	})
}

func TestProductRepository_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		_, err := repo.Create(ctx, productFixture(fmt.Sprintf("Product %02d", i), 1000, 1, nil))
		require.NoError(t, err)
	}

	// concatenating all pages reproduces the full ordered set exactly once
	var seen []string
	for page := 1; page <= 3; page++ {
		rows, total, err := repo.List(ctx, model.ProductQuery{Page: page, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		for _, row := range rows {
			seen = append(seen, row.Name)
		}
	}
	require.Len(t, seen, 7)
	assert.Equal(t, "Product 07", seen[0])
	assert.Equal(t, "Product 01", seen[6])
	uniq := map[string]bool{}
	for _, name := range seen {
		uniq[name] = true
	}
	assert.Len(t, uniq, 7)
}

func TestProductRepository_BarcodeExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := productFixture("Coffee", 15000, 10, nil)
	p.Barcode = strPtr("ABC123")
	id, err := repo.Create(ctx, p)
	require.NoError(t, err)

	exists, err := repo.BarcodeExists(ctx, "ABC123", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// case-sensitive among non-blank barcodes
	exists, err = repo.BarcodeExists(ctx, "abc123", 0)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.BarcodeExists(ctx, "ABC123", id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductRepository_DeductStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, productFixture("Coffee", 15000, 10, nil))
	require.NoError(t, err)

	t.Run("deducts", func(t *testing.T) {
		require.NoError(t, repo.DeductStock(ctx, id, 2))
		p, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(8), p.Qty)
	})

	t.Run("exact depletion allowed", func(t *testing.T) {
		require.NoError(t, repo.DeductStock(ctx, id, 8))
		p, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, p.Qty)
	})

	t.Run("never below zero", func(t *testing.T) {
		err := repo.DeductStock(ctx, id, 1)
		require.ErrorIs(t, err, ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Coffee")

		p, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, p.Qty)
	})

	t.Run("missing product", func(t *testing.T) {
		err := repo.DeductStock(ctx, 9999, 1)
		require.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestProductRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, productFixture("Coffee", 15000, 10, nil))
	require.NoError(t, err)

	updated := productFixture("Espresso", 18000, 12, nil)
	updated.ID = id
	ok, err := repo.Update(ctx, updated)
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Espresso", p.Name)
	assert.Equal(t, int64(18000), p.Price)
	assert.Equal(t, int64(12), p.Qty)
	assert.Nil(t, p.Barcode)

	missing := productFixture("Ghost", 100, 0, nil)
	missing.ID = 9999
	ok, err = repo.Update(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)
}
