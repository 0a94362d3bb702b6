package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/smartpos/pos-engine/internal/cache"
	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/pkg/logger"
)

const (
	dashboardCacheKey = "reports:dashboard"
	dashboardCacheTTL = 15 * time.Second

	exportTimeLayout = "2006-01-02 15:04:05"
)

type ReportRepository interface {
	DashboardSummary(ctx context.Context, lowStockThreshold int64) (*model.DashboardSummary, error)
	Summary(ctx context.Context, dr model.DateRange) (*model.ReportSummary, error)
	Series(ctx context.Context, q model.ReportSeriesQuery) ([]model.SeriesBucket, error)
}

type ExportRepository interface {
	ExportRows(ctx context.Context, dr model.DateRange) ([]*model.Transaction, error)
}

// ReportService serves the read-only aggregations. Only the dashboard
// goes through the cache; the UI polls it, while summary, series and
// export are one-shot requests.
type ReportService struct {
	reportRepo        ReportRepository
	exportRepo        ExportRepository
	dashboardCache    cache.DashboardCache
	exportDir         string
	lowStockThreshold int64
	now               func() time.Time
}

func NewReportService(reportRepo ReportRepository, exportRepo ExportRepository, dashboardCache cache.DashboardCache, exportDir string, lowStockThreshold int64) *ReportService {
	if dashboardCache == nil {
		dashboardCache = cache.NoopDashboardCache{}
	}
	return &ReportService{
		reportRepo:        reportRepo,
		exportRepo:        exportRepo,
		dashboardCache:    dashboardCache,
		exportDir:         exportDir,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// Dashboard returns the cached snapshot when fresh, otherwise runs the
// aggregation. Cache trouble degrades to a direct read, never an error.
func (s *ReportService) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	cached, ok, err := s.dashboardCache.Get(ctx, dashboardCacheKey)
	if err != nil {
		logger.Debug("dashboard cache read failed", "error", err)
	}
	if ok {
		return cached, nil
	}

	summary, err := s.reportRepo.DashboardSummary(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	if err := s.dashboardCache.Set(ctx, dashboardCacheKey, summary, dashboardCacheTTL); err != nil {
		logger.Debug("dashboard cache write failed", "error", err)
	}
	return summary, nil
}

func (s *ReportService) Summary(ctx context.Context, dr model.DateRange) (*model.ReportSummary, error) {
	return s.reportRepo.Summary(ctx, dr)
}

func (s *ReportService) Series(ctx context.Context, q model.ReportSeriesQuery) ([]model.SeriesBucket, error) {
	if q.GroupBy != model.GroupByHour {
		q.GroupBy = model.GroupByDay
	}
	return s.reportRepo.Series(ctx, q)
}

// Export writes the matching transactions as CSV into the export
// directory and returns the written path. An empty result set writes
// nothing and returns "".
func (s *ReportService) Export(ctx context.Context, dr model.DateRange) (string, error) {
	rows, err := s.exportRepo.ExportRows(ctx, dr)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	name := fmt.Sprintf("transactions-%s-%s.csv", s.now().Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(s.exportDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "code", "subtotal", "tax_amount", "total", "created_at"}); err != nil {
		return "", fmt.Errorf("write export header: %w", err)
	}
	for _, txn := range rows {
		code := ""
		if txn.Code != nil {
			code = *txn.Code
		}
		record := []string{
			strconv.FormatInt(txn.ID, 10),
			code,
			strconv.FormatInt(txn.Subtotal, 10),
			strconv.FormatInt(txn.TaxAmount, 10),
			strconv.FormatInt(txn.Total, 10),
			txn.CreatedAt.Format(exportTimeLayout),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush export: %w", err)
	}

	logger.Info("transactions exported", "path", path, "rows", len(rows))
	return path, nil
}
