package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/internal/repository"
	"github.com/smartpos/pos-engine/pkg/prom"
)

const codeAttempts = 5

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction, items []model.TransactionItem) (*model.Transaction, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error)
	GetByID(ctx context.Context, id int64) (*model.TransactionDetail, error)
	GetByCode(ctx context.Context, code string) (*model.TransactionDetail, error)
}

type StockRepository interface {
	DeductStock(ctx context.Context, productID int64, qty int64) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*model.StoreSettings, error)
	Update(ctx context.Context, s *model.StoreSettings) (bool, error)
}

// LedgerService posts sales and reads them back. Posting is the only
// multi-statement write in the system: the transaction row, its items
// and every stock deduction commit together or not at all.
type LedgerService struct {
	transactionRepo TransactionRepository
	stockRepo       StockRepository
	settingsRepo    SettingsRepository
	now             func() time.Time
}

func NewLedgerService(transactionRepo TransactionRepository, stockRepo StockRepository, settingsRepo SettingsRepository) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		stockRepo:       stockRepo,
		settingsRepo:    settingsRepo,
		now:             time.Now,
	}
}

// SaveTransaction validates the cart, freezes totals under the current
// tax settings and posts everything atomically. Stock is deducted for
// cart lines that reference a product; free-form lines only make it
// into the item snapshot.
func (s *LedgerService) SaveTransaction(ctx context.Context, req model.SaveTransactionRequest) (*model.PostedTransaction, error) {
	start := s.now()

	if err := req.Validate(); err != nil {
		prom.IncCounterVec(prom.SystemLedger, prom.MetricPostingFailures, "invalid_payload")
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var subtotal int64
	items := make([]model.TransactionItem, 0, len(req.Items))
	for _, it := range req.Items {
		lineTotal := int64(math.Round(it.Qty * it.Price))
		subtotal += lineTotal
		items = append(items, model.TransactionItem{
			ProductID: it.ProductID,
			Name:      strings.TrimSpace(it.Name),
			Qty:       int64(math.Round(it.Qty)),
			Price:     int64(math.Round(it.Price)),
			LineTotal: lineTotal,
		})
	}

	var taxAmount int64
	if settings.TaxOn() {
		taxAmount = int64(math.Round(float64(subtotal) * float64(settings.TaxRate) / 100))
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		Code:      &code,
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}

	var posted *model.Transaction
	err = s.stockRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.transactionRepo.Create(ctx, txn, items)
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		posted = created

		for _, item := range items {
			if item.ProductID == nil {
				continue
			}
			if err := s.stockRepo.DeductStock(ctx, *item.ProductID, item.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		prom.IncCounterVec(prom.SystemLedger, prom.MetricPostingFailures, failureReason(err))
		return nil, err
	}

	prom.IncCounter(prom.SystemLedger, prom.MetricTransactionsPosted)
	prom.ObservePostingDuration(s.now().Sub(start).Seconds())

	return &model.PostedTransaction{ID: posted.ID, Code: code}, nil
}

func (s *LedgerService) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	return s.transactionRepo.List(ctx, f)
}

// GetDetailByID returns nil without error for an unknown id.
func (s *LedgerService) GetDetailByID(ctx context.Context, id int64) (*model.TransactionDetail, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

// GetDetailByCode returns nil without error for a blank or unknown code.
func (s *LedgerService) GetDetailByCode(ctx context.Context, code string) (*model.TransactionDetail, error) {
	return s.transactionRepo.GetByCode(ctx, code)
}

// generateCode builds a timestamp-prefixed code with a random 4-digit
// suffix and probes for collisions. After codeAttempts collisions it
// widens the suffix to 6 digits and takes that without another probe;
// the partial unique index on transactions.code still backstops it.
func (s *LedgerService) generateCode(ctx context.Context) (string, error) {
	prefix := s.now().Format("20060102150405")

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := prefix + fmt.Sprintf("%04d", rand.Intn(10000))
		exists, err := s.transactionRepo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("probe transaction code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	return prefix + fmt.Sprintf("%06d", rand.Intn(1000000)), nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, repository.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, model.ErrInvalidPayload):
		return "invalid_payload"
	default:
		return "error"
	}
}
