package model

import (
	"errors"
	"strings"
)

// StoreSettings is the singleton configuration row. TaxEnabled is kept
// as 0/1 to mirror the stored form.
type StoreSettings struct {
	StoreName     string `json:"store_name"`
	StoreAddress  string `json:"store_address"`
	StorePhone    string `json:"store_phone"`
	TaxEnabled    int    `json:"tax_enabled"`
	TaxRate       int64  `json:"tax_rate"` // integer percent
	ReceiptHeader string `json:"receipt_header"`
	ReceiptFooter string `json:"receipt_footer"`
}

func (s StoreSettings) TaxOn() bool { return s.TaxEnabled == 1 }

type SettingsUpdateRequest struct {
	StoreName     string  `json:"store_name"`
	StoreAddress  string  `json:"store_address"`
	StorePhone    string  `json:"store_phone"`
	TaxEnabled    bool    `json:"tax_enabled"`
	TaxRate       float64 `json:"tax_rate"`
	ReceiptHeader string  `json:"receipt_header"`
	ReceiptFooter string  `json:"receipt_footer"`
}

func (p SettingsUpdateRequest) Validate() error {
	if strings.TrimSpace(p.StoreName) == "" {
		return errors.New("store name is required")
	}
	return nil
}
