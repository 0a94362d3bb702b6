package model

// GroupBy selects the bucketing key for the report series.
type GroupBy string

const (
	GroupByHour GroupBy = "hour" // hour of day, "00".."23", local time
	GroupByDay  GroupBy = "day"  // calendar date, local time
)

type TopProduct struct {
	Name    string `json:"name"`
	QtySold int64  `json:"qty_sold"`
}

type LowStockItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Qty  int64  `json:"qty"`
}

type DashboardSummary struct {
	TransactionsToday int64          `json:"transactions_today"`
	RevenueToday      int64          `json:"revenue_today"`
	ProductsCount     int64          `json:"products_count"`
	TopProducts       []TopProduct   `json:"top_products"`
	LowStockCount     int64          `json:"low_stock_count"`
	LowStockItems     []LowStockItem `json:"low_stock_items"`
	LowStockThreshold int64          `json:"low_stock_threshold"`
}

// ReportSummary aggregates over a date window. All fields are zero,
// never null, when nothing matches.
type ReportSummary struct {
	TotalRevenue       int64   `json:"total_revenue"`
	TotalTransactions  int64   `json:"total_transactions"`
	AverageTransaction float64 `json:"average_transaction"`
}

// SeriesBucket is one aggregation bucket. Buckets with no transactions
// are absent; callers merging against a full label sequence fill gaps
// with 0.
type SeriesBucket struct {
	Bucket string `json:"bucket"`
	Total  int64  `json:"total"`
}

type ReportSeriesQuery struct {
	DateRange
	GroupBy GroupBy
}
