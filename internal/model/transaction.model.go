package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidPayload rejects a malformed cart before anything touches
// the database. The whole payload fails; there is no partial acceptance.
var ErrInvalidPayload = errors.New("invalid transaction payload")

// Transaction is a posted sale. Immutable once created; monetary
// fields are derived at posting time and frozen. Code is nil on rows
// that predate code generation.
type Transaction struct {
	ID        int64     `json:"id"`
	Code      *string   `json:"code"`
	Subtotal  int64     `json:"subtotal"`
	TaxAmount int64     `json:"tax_amount"`
	Total     int64     `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionItem snapshots name and unit price at posting time so
// receipts stay correct after the product is renamed or deleted.
type TransactionItem struct {
	ID            int64  `json:"id"`
	TransactionID int64  `json:"transaction_id"`
	ProductID     *int64 `json:"product_id"`
	Name          string `json:"name"`
	Qty           int64  `json:"qty"`
	Price         int64  `json:"price"`
	LineTotal     int64  `json:"line_total"`
}

type TransactionDetail struct {
	Transaction Transaction       `json:"transaction"`
	Items       []TransactionItem `json:"items"`
}

// CartItem is one line of an unposted cart. Qty and Price arrive as
// floats from the UI boundary and are rounded at posting time.
type CartItem struct {
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
	ProductID *int64  `json:"product_id"`
}

type SaveTransactionRequest struct {
	Items []CartItem `json:"items"`
}

func (p SaveTransactionRequest) Validate() error {
	if len(p.Items) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidPayload)
	}
	for i, item := range p.Items {
		if item.Name == "" {
			return fmt.Errorf("%w: item %d has no name", ErrInvalidPayload, i)
		}
		if math.IsNaN(item.Qty) || math.IsInf(item.Qty, 0) || item.Qty <= 0 {
			return fmt.Errorf("%w: item %d qty must be positive", ErrInvalidPayload, i)
		}
		if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
			return fmt.Errorf("%w: item %d price must not be negative", ErrInvalidPayload, i)
		}
	}
	return nil
}

// PostedTransaction is what the boundary returns after a successful post.
type PostedTransaction struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

// DateRange filters by created_at with inclusive bounds, local time.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// TransactionFilter controls ListTransactions. Page is 1-indexed.
type TransactionFilter struct {
	DateRange
	Page     int
	PageSize int
}
