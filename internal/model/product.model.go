package model

import (
	"errors"
	"strings"
	"time"
)

type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Barcode      *string   `json:"barcode"`
	Price        int64     `json:"price"` // smallest currency unit
	Qty          int64     `json:"qty"`
	CategoryID   *int64    `json:"category_id"`
	CategoryName *string   `json:"category_name,omitempty"` // joined on list reads
	CreatedAt    time.Time `json:"created_at"`
}

// ProductWriteRequest carries the fields shared by create and update.
// Price and Qty arrive as floats from the UI boundary and are rounded
// to integers before storage.
type ProductWriteRequest struct {
	Name       string
	Barcode    string
	Price      float64
	Qty        float64
	CategoryID *int64
}

func (p ProductWriteRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	return nil
}

// ProductQuery controls ListProducts. Search matches name or barcode
// by substring; Page is 1-indexed.
type ProductQuery struct {
	Search     string
	CategoryID *int64
	Page       int
	PageSize   int
}
