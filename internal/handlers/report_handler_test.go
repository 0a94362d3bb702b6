package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartpos/pos-engine/internal/model"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardSummary), args.Error(1)
}

func (m *MockReportService) Summary(ctx context.Context, dr model.DateRange) (*model.ReportSummary, error) {
	args := m.Called(ctx, dr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReportSummary), args.Error(1)
}

func (m *MockReportService) Series(ctx context.Context, q model.ReportSeriesQuery) ([]model.SeriesBucket, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SeriesBucket), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, dr model.DateRange) (string, error) {
	args := m.Called(ctx, dr)
	return args.String(0), args.Error(1)
}

func TestReportHandler_Dashboard(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)

	svc.On("Dashboard", mock.Anything).Return(&model.DashboardSummary{
		TransactionsToday: 3,
		RevenueToday:      45000,
		LowStockThreshold: 5,
	}, nil)

	ctx := setupTestContext("GET", "/api/v1/reports/dashboard", nil)
	handler.Dashboard(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var resp model.DashboardSummary
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, int64(45000), resp.RevenueToday)
}

func TestReportHandler_Series(t *testing.T) {
	t.Run("passes the grouping through", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)

		svc.On("Series", mock.Anything, mock.MatchedBy(func(q model.ReportSeriesQuery) bool {
			return q.GroupBy == model.GroupByHour
		})).Return([]model.SeriesBucket{{Bucket: "14", Total: 30000}}, nil)

		ctx := setupTestContext("GET", "/api/v1/reports/series?group_by=hour", nil)
		handler.Series(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp seriesResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		require.Len(t, resp.Buckets, 1)
		assert.Equal(t, "14", resp.Buckets[0].Bucket)
	})

	t.Run("an empty window answers an empty list, not null", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)

		svc.On("Series", mock.Anything, mock.Anything).Return(nil, nil)

		ctx := setupTestContext("GET", "/api/v1/reports/series?group_by=day", nil)
		handler.Series(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"buckets":[]}`, string(ctx.Response.Body()))
	})
}

func TestReportHandler_Export(t *testing.T) {
	t.Run("returns the written path", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)

		svc.On("Export", mock.Anything, mock.Anything).
			Return("/data/exports/transactions-20250115-093000-ab12cd34.csv", nil)

		ctx := setupTestContext("POST", "/api/v1/reports/export", nil)
		handler.Export(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp exportResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Contains(t, resp.Path, "transactions-")
	})

	t.Run("nothing to export maps to 404", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)

		svc.On("Export", mock.Anything, mock.Anything).Return("", nil)

		ctx := setupTestContext("POST", "/api/v1/reports/export", nil)
		handler.Export(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}
