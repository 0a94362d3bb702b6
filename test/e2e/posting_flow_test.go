package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/smartpos/pos-engine/internal/cache"
	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/internal/repository"
	"github.com/smartpos/pos-engine/internal/services"
	"github.com/smartpos/pos-engine/pkg/sqlite"
	"github.com/smartpos/pos-engine/test/fixtures"
	"github.com/smartpos/pos-engine/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestEnvironment struct {
	DB              *sqlite.DB
	CategoryRepo    *repository.CategoryRepository
	ProductRepo     *repository.ProductRepository
	TransactionRepo *repository.TransactionRepository
	SettingsRepo    *repository.SettingsRepository
	ReportRepo      *repository.ReportRepository
	CatalogService  *services.CatalogService
	LedgerService   *services.LedgerService
	ReportService   *services.ReportService
	SettingsService *services.SettingsService
}

func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	db := helpers.SetupTestDB(t)

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)

	catalogService := services.NewCatalogService(categoryRepo, productRepo)
	ledgerService := services.NewLedgerService(transactionRepo, productRepo, settingsRepo)
	reportService := services.NewReportService(reportRepo, transactionRepo,
		&cache.NoopDashboardCache{}, t.TempDir(), 5)
	settingsService := services.NewSettingsService(settingsRepo)

	return &TestEnvironment{
		DB:              db,
		CategoryRepo:    categoryRepo,
		ProductRepo:     productRepo,
		TransactionRepo: transactionRepo,
		SettingsRepo:    settingsRepo,
		ReportRepo:      reportRepo,
		CatalogService:  catalogService,
		LedgerService:   ledgerService,
		ReportService:   reportService,
		SettingsService: settingsService,
	}
}

func (env *TestEnvironment) Cleanup() {
	_ = env.DB.Close()
}

func TestE2E_PostingDeductsStock(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()

	coffeeID, err := env.CatalogService.CreateProduct(ctx, fixtures.TestProductCoffee)
	require.NoError(t, err)

	posted, err := env.LedgerService.SaveTransaction(ctx, fixtures.CoffeeCart(coffeeID))
	require.NoError(t, err)
	assert.NotZero(t, posted.ID)
	assert.NotEmpty(t, posted.Code)

	assert.Equal(t, int64(8), helpers.ProductQty(t, env.DB, coffeeID))

	detail, err := env.LedgerService.GetDetailByID(ctx, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), detail.Transaction.Subtotal)
	assert.Equal(t, int64(0), detail.Transaction.TaxAmount)
	assert.Equal(t, int64(30000), detail.Transaction.Total)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Coffee", detail.Items[0].Name)
	assert.Equal(t, int64(24000), detail.Items[0].LineTotal)

	byCode, err := env.LedgerService.GetDetailByCode(ctx, posted.Code)
	require.NoError(t, err)
	assert.Equal(t, posted.ID, byCode.Transaction.ID)
}

func TestE2E_PostingWithTax(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()

	helpers.SetTaxEnabled(t, env.DB, true, 10)

	coffeeID, err := env.CatalogService.CreateProduct(ctx, fixtures.TestProductCoffee)
	require.NoError(t, err)

	posted, err := env.LedgerService.SaveTransaction(ctx, fixtures.CoffeeCart(coffeeID))
	require.NoError(t, err)

	detail, err := env.LedgerService.GetDetailByID(ctx, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), detail.Transaction.Subtotal)
	assert.Equal(t, int64(3000), detail.Transaction.TaxAmount)
	assert.Equal(t, int64(33000), detail.Transaction.Total)
}

func TestE2E_InsufficientStockRollsBack(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()

	syrupID, err := env.CatalogService.CreateProduct(ctx, fixtures.TestProductLowStock)
	require.NoError(t, err)

	_, err = env.LedgerService.SaveTransaction(ctx, fixtures.CartWithQty(syrupID, "Syrup", 2, 25000))
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Syrup")

	// nothing persists: no transaction, no items, stock untouched
	var txnCount int64
	env.DB.Read(ctx).Model(&repository.TransactionEntity{}).Count(&txnCount)
	assert.Zero(t, txnCount)

	var itemCount int64
	env.DB.Read(ctx).Model(&repository.TransactionItemEntity{}).Count(&itemCount)
	assert.Zero(t, itemCount)

	assert.Equal(t, int64(1), helpers.ProductQty(t, env.DB, syrupID))
}

func TestE2E_UnknownProductRollsBack(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()

	_, err := env.LedgerService.SaveTransaction(ctx, fixtures.CartWithQty(999, "Ghost", 1, 1000))
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	var txnCount int64
	env.DB.Read(ctx).Model(&repository.TransactionEntity{}).Count(&txnCount)
	assert.Zero(t, txnCount)
}

func TestE2E_EmptyCartRejected(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	posted, err := env.LedgerService.SaveTransaction(context.Background(), fixtures.EmptyCart())
	assert.ErrorIs(t, err, model.ErrInvalidPayload)
	assert.Nil(t, posted)
}

func TestE2E_DuplicateCategoryName(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()

	_, err := env.CatalogService.CreateCategory(ctx, model.CategoryCreateRequest{Name: "Drinks"})
	require.NoError(t, err)

	_, err = env.CatalogService.CreateCategory(ctx, model.CategoryCreateRequest{Name: "drinks"})
	assert.ErrorIs(t, err, services.ErrDuplicateName)
}

func TestE2E_SettingsRoundTrip(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()

	ok, err := env.SettingsService.Update(ctx, fixtures.SettingsUpdate("Corner Store", true, 11))
	require.NoError(t, err)
	assert.True(t, ok)

	settings, err := env.SettingsService.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Corner Store", settings.StoreName)
	assert.True(t, settings.TaxOn())
	assert.Equal(t, int64(11), settings.TaxRate)

	coffeeID, err := env.CatalogService.CreateProduct(ctx, fixtures.TestProductCoffee)
	require.NoError(t, err)

	posted, err := env.LedgerService.SaveTransaction(ctx, fixtures.CoffeeCart(coffeeID))
	require.NoError(t, err)

	detail, err := env.LedgerService.GetDetailByID(ctx, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3300), detail.Transaction.TaxAmount)
}

func TestE2E_ReportsSeePostedSales(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()

	coffeeID, err := env.CatalogService.CreateProduct(ctx, fixtures.TestProductCoffee)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := env.LedgerService.SaveTransaction(ctx, fixtures.CartWithQty(coffeeID, "Coffee", 1, 12000))
		require.NoError(t, err)
	}

	dashboard, err := env.ReportService.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), dashboard.TransactionsToday)
	assert.Equal(t, int64(36000), dashboard.RevenueToday)

	summary, err := env.ReportService.Summary(ctx, fixtures.DayOf(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalTransactions)
	assert.Equal(t, int64(36000), summary.TotalRevenue)
	assert.Equal(t, float64(12000), summary.AverageTransaction)

	buckets, err := env.ReportService.Series(ctx, model.ReportSeriesQuery{
		DateRange: fixtures.DayOf(time.Now()),
		GroupBy:   model.GroupByDay,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, int64(36000), buckets[0].Total)
}

func TestE2E_ExportWritesCSV(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()

	coffeeID, err := env.CatalogService.CreateProduct(ctx, fixtures.TestProductCoffee)
	require.NoError(t, err)

	_, err = env.LedgerService.SaveTransaction(ctx, fixtures.CartWithQty(coffeeID, "Coffee", 1, 12000))
	require.NoError(t, err)

	path, err := env.ReportService.Export(ctx, model.DateRange{})
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.FileExists(t, path)
}

func TestE2E_ListTransactionsPagination(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()

	coffeeID, err := env.CatalogService.CreateProduct(ctx, model.ProductWriteRequest{
		Name: "Coffee", Price: 12000, Qty: 100,
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := env.LedgerService.SaveTransaction(ctx, fixtures.CartWithQty(coffeeID, "Coffee", 1, 12000))
		require.NoError(t, err)
	}

	transactions, total, err := env.LedgerService.List(ctx, model.TransactionFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, transactions, 2)

	transactions, _, err = env.LedgerService.List(ctx, model.TransactionFilter{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}
