package cache

import (
	"context"
	"time"

	"github.com/smartpos/pos-engine/internal/model"
)

// DashboardCache shields the dashboard aggregation from being re-run
// on every poll of the UI. A miss is (nil, false, nil); errors are for
// the backend being unreachable, and callers treat them as misses.
type DashboardCache interface {
	Get(ctx context.Context, key string) (*model.DashboardSummary, bool, error)
	Set(ctx context.Context, key string, value *model.DashboardSummary, ttl time.Duration) error
}

// NoopDashboardCache is used when no cache backend is configured.
type NoopDashboardCache struct{}

func (NoopDashboardCache) Get(_ context.Context, _ string) (*model.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (NoopDashboardCache) Set(_ context.Context, _ string, _ *model.DashboardSummary, _ time.Duration) error {
	return nil
}
