package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/smartpos/pos-engine/internal/model"
)

// SettingsService guards the singleton configuration row.
type SettingsService struct {
	settingsRepo SettingsRepository
}

func NewSettingsService(settingsRepo SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

func (s *SettingsService) Get(ctx context.Context) (*model.StoreSettings, error) {
	return s.settingsRepo.Get(ctx)
}

// Update normalizes and persists the whole settings row at once. The
// tax rate is clamped at zero and rounded to a whole percent; the
// enabled flag is stored as 0/1 to match the on-disk form.
func (s *SettingsService) Update(ctx context.Context, p model.SettingsUpdateRequest) (bool, error) {
	storeName := strings.TrimSpace(p.StoreName)
	if storeName == "" {
		return false, fmt.Errorf("%w: store name is required", ErrInvalidInput)
	}

	rate := p.TaxRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		rate = 0
	}

	taxEnabled := 0
	if p.TaxEnabled {
		taxEnabled = 1
	}

	next := &model.StoreSettings{
		StoreName:     storeName,
		StoreAddress:  strings.TrimSpace(p.StoreAddress),
		StorePhone:    strings.TrimSpace(p.StorePhone),
		TaxEnabled:    taxEnabled,
		TaxRate:       int64(math.Round(rate)),
		ReceiptHeader: strings.TrimSpace(p.ReceiptHeader),
		ReceiptFooter: strings.TrimSpace(p.ReceiptFooter),
	}

	return s.settingsRepo.Update(ctx, next)
}
