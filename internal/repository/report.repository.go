package repository

import (
	"context"

	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/pkg/sqlite"
)

// ReportRepository runs the read-only aggregations. Everything is
// derived from the ledger tables; there is no independent state.
type ReportRepository struct {
	*sqlite.DB
}

func NewReportRepository(db *sqlite.DB) *ReportRepository {
	return &ReportRepository{
		db,
	}
}

// DashboardSummary aggregates over the current local calendar day.
func (r *ReportRepository) DashboardSummary(ctx context.Context, lowStockThreshold int64) (*model.DashboardSummary, error) {
	summary := &model.DashboardSummary{LowStockThreshold: lowStockThreshold}

	var today struct {
		TransactionsToday int64 `gorm:"column:transactions_today"`
		RevenueToday      int64 `gorm:"column:revenue_today"`
	}
	err := r.Read(ctx).Raw(`
		SELECT COUNT(*) AS transactions_today, COALESCE(SUM(total), 0) AS revenue_today
		FROM transactions
		WHERE date(created_at, 'localtime') = date('now', 'localtime')`).Scan(&today).Error
	if err != nil {
		return nil, err
	}
	summary.TransactionsToday = today.TransactionsToday
	summary.RevenueToday = today.RevenueToday

	err = r.Read(ctx).Raw("SELECT COUNT(*) FROM products").Scan(&summary.ProductsCount).Error
	if err != nil {
		return nil, err
	}

	var top []struct {
		Name    string `gorm:"column:name"`
		QtySold int64  `gorm:"column:qty_sold"`
	}
	err = r.Read(ctx).Raw(`
		SELECT name, COALESCE(SUM(qty), 0) AS qty_sold
		FROM transaction_items
		WHERE transaction_id IN (
			SELECT id FROM transactions WHERE date(created_at, 'localtime') = date('now', 'localtime')
		)
		GROUP BY name
		ORDER BY qty_sold DESC, name ASC
		LIMIT 5`).Scan(&top).Error
	if err != nil {
		return nil, err
	}
	summary.TopProducts = make([]model.TopProduct, len(top))
	for i, t := range top {
		summary.TopProducts[i] = model.TopProduct{Name: t.Name, QtySold: t.QtySold}
	}

	err = r.Read(ctx).Raw("SELECT COUNT(*) FROM products WHERE qty <= ?", lowStockThreshold).
		Scan(&summary.LowStockCount).Error
	if err != nil {
		return nil, err
	}

	var low []struct {
		ID   int64  `gorm:"column:id"`
		Name string `gorm:"column:name"`
		Qty  int64  `gorm:"column:qty"`
	}
	err = r.Read(ctx).Raw(`
		SELECT id, name, qty
		FROM products
		WHERE qty <= ?
		ORDER BY qty ASC, name ASC
		LIMIT 5`, lowStockThreshold).Scan(&low).Error
	if err != nil {
		return nil, err
	}
	summary.LowStockItems = make([]model.LowStockItem, len(low))
	for i, l := range low {
		summary.LowStockItems[i] = model.LowStockItem{ID: l.ID, Name: l.Name, Qty: l.Qty}
	}

	return summary, nil
}

func (r *ReportRepository) Summary(ctx context.Context, dr model.DateRange) (*model.ReportSummary, error) {
	q := applyDateRange(r.Read(ctx).Table("transactions"), dr)

	var row struct {
		TotalRevenue       int64   `gorm:"column:total_revenue"`
		TotalTransactions  int64   `gorm:"column:total_transactions"`
		AverageTransaction float64 `gorm:"column:average_transaction"`
	}
	err := q.Select(`
		COALESCE(SUM(total), 0) AS total_revenue,
		COUNT(*) AS total_transactions,
		COALESCE(AVG(total), 0) AS average_transaction`).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &model.ReportSummary{
		TotalRevenue:       row.TotalRevenue,
		TotalTransactions:  row.TotalTransactions,
		AverageTransaction: row.AverageTransaction,
	}, nil
}

// Series buckets transactions by hour of day or calendar date, local
// time. Buckets with no transactions are absent from the result.
func (r *ReportRepository) Series(ctx context.Context, q model.ReportSeriesQuery) ([]model.SeriesBucket, error) {
	groupExpr := "date(created_at, 'localtime')"
	if q.GroupBy == model.GroupByHour {
		groupExpr = "strftime('%H', created_at, 'localtime')"
	}

	query := applyDateRange(r.Read(ctx).Table("transactions"), q.DateRange)

	var rows []struct {
		Bucket string `gorm:"column:bucket"`
		Total  int64  `gorm:"column:total"`
	}
	err := query.Select(groupExpr + " AS bucket, COALESCE(SUM(total), 0) AS total").
		Group("bucket").Order("bucket ASC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]model.SeriesBucket, len(rows))
	for i, row := range rows {
		buckets[i] = model.SeriesBucket{Bucket: row.Bucket, Total: row.Total}
	}
	return buckets, nil
}
