package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/smartpos/pos-engine/internal/cache"
	"github.com/smartpos/pos-engine/internal/repository"
	"github.com/smartpos/pos-engine/pkg/sqlite"
	"github.com/stretchr/testify/require"
)

func SetupTestDB(t *testing.T) *sqlite.DB {
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)

	err = db.Migrate()
	require.NoError(t, err)

	return db
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisDashboardCache) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	c := cache.NewRedisDashboardCache(mr.Addr(), "", 0)
	require.NoError(t, c.Ping(context.Background()))

	return mr, c
}

func CreateTestCategory(t *testing.T, db *sqlite.DB, name string) int64 {
	ctx := context.Background()
	category := &repository.CategoryEntity{
		Name: name,
	}
	err := db.Write(ctx).Create(category).Error
	require.NoError(t, err)
	return category.ID
}

func CreateTestProduct(t *testing.T, db *sqlite.DB, name string, price, qty int64) int64 {
	ctx := context.Background()
	product := &repository.ProductEntity{
		Name:      name,
		Price:     price,
		Qty:       qty,
		CreatedAt: time.Now(),
	}
	err := db.Write(ctx).Create(product).Error
	require.NoError(t, err)
	return product.ID
}

func CreateTestTransaction(t *testing.T, db *sqlite.DB, code string, subtotal, taxAmount int64, createdAt time.Time) int64 {
	ctx := context.Background()
	txn := &repository.TransactionEntity{
		Code:      &code,
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
		CreatedAt: createdAt,
	}
	err := db.Write(ctx).Create(txn).Error
	require.NoError(t, err)
	return txn.ID
}

func ProductQty(t *testing.T, db *sqlite.DB, productID int64) int64 {
	ctx := context.Background()
	var product repository.ProductEntity
	err := db.Read(ctx).First(&product, productID).Error
	require.NoError(t, err)
	return product.Qty
}

func SetTaxEnabled(t *testing.T, db *sqlite.DB, enabled bool, rate int64) {
	ctx := context.Background()
	taxEnabled := int64(0)
	if enabled {
		taxEnabled = 1
	}
	err := db.Write(ctx).Model(&repository.SettingsEntity{}).
		Where("id = ?", 1).
		Updates(map[string]interface{}{"tax_enabled": taxEnabled, "tax_rate": rate}).Error
	require.NoError(t, err)
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
