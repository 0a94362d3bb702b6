package repository

import (
	"github.com/smartpos/pos-engine/internal/model"
)

// SettingsEntity is the singleton configuration row, always id=1.
type SettingsEntity struct {
	ID            int64  `db:"id"             gorm:"primaryKey;column:id"`
	StoreName     string `db:"store_name"     gorm:"column:store_name;not null"`
	StoreAddress  string `db:"store_address"  gorm:"column:store_address;not null"`
	StorePhone    string `db:"store_phone"    gorm:"column:store_phone;not null"`
	TaxEnabled    int    `db:"tax_enabled"    gorm:"column:tax_enabled;not null"`
	TaxRate       int64  `db:"tax_rate"       gorm:"column:tax_rate;not null"`
	ReceiptHeader string `db:"receipt_header" gorm:"column:receipt_header;not null"`
	ReceiptFooter string `db:"receipt_footer" gorm:"column:receipt_footer;not null"`
}

func (SettingsEntity) TableName() string {
	return "settings"
}

func toSettingsEntity(m *model.StoreSettings) *SettingsEntity {
	if m == nil {
		return nil
	}
	return &SettingsEntity{
		ID:            settingsRowID,
		StoreName:     m.StoreName,
		StoreAddress:  m.StoreAddress,
		StorePhone:    m.StorePhone,
		TaxEnabled:    m.TaxEnabled,
		TaxRate:       m.TaxRate,
		ReceiptHeader: m.ReceiptHeader,
		ReceiptFooter: m.ReceiptFooter,
	}
}

func toSettingsModel(e *SettingsEntity) *model.StoreSettings {
	if e == nil {
		return nil
	}
	return &model.StoreSettings{
		StoreName:     e.StoreName,
		StoreAddress:  e.StoreAddress,
		StorePhone:    e.StorePhone,
		TaxEnabled:    e.TaxEnabled,
		TaxRate:       e.TaxRate,
		ReceiptHeader: e.ReceiptHeader,
		ReceiptFooter: e.ReceiptFooter,
	}
}
