package repository

import (
	"context"
	"errors"

	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/pkg/sqlite"
	"gorm.io/gorm"
)

const settingsRowID = 1

type SettingsRepository struct {
	*sqlite.DB
}

func NewSettingsRepository(db *sqlite.DB) *SettingsRepository {
	return &SettingsRepository{
		db,
	}
}

// Get returns the singleton settings row. The migration seeds it on
// first run; if it is somehow gone, defaults are re-inserted so the
// caller always sees exactly one row.
func (r *SettingsRepository) Get(ctx context.Context) (*model.StoreSettings, error) {
	var entity SettingsEntity
	err := r.Read(ctx).Where("id = ?", settingsRowID).First(&entity).Error
	if err == nil {
		return toSettingsModel(&entity), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.Write(ctx).Exec("INSERT OR IGNORE INTO settings (id) VALUES (?)", settingsRowID).Error; err != nil {
		return nil, err
	}
	if err := r.Read(ctx).Where("id = ?", settingsRowID).First(&entity).Error; err != nil {
		return nil, err
	}
	return toSettingsModel(&entity), nil
}

func (r *SettingsRepository) Update(ctx context.Context, s *model.StoreSettings) (bool, error) {
	entity := toSettingsEntity(s)
	result := r.Write(ctx).Model(&SettingsEntity{}).Where("id = ?", settingsRowID).
		Updates(map[string]interface{}{
			"store_name":     entity.StoreName,
			"store_address":  entity.StoreAddress,
			"store_phone":    entity.StorePhone,
			"tax_enabled":    entity.TaxEnabled,
			"tax_rate":       entity.TaxRate,
			"receipt_header": entity.ReceiptHeader,
			"receipt_footer": entity.ReceiptFooter,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
