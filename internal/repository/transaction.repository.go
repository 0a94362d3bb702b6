package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/pkg/sqlite"
	"gorm.io/gorm"
)

const sqlDateTime = "2006-01-02 15:04:05"

type TransactionRepository struct {
	*sqlite.DB
}

func NewTransactionRepository(db *sqlite.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

// Create inserts the transaction row and its items. Callers wrap it in
// WithinTransaction together with the stock decrements; items are never
// created without a parent.
func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction, items []model.TransactionItem) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	itemEntities := make([]*TransactionItemEntity, len(items))
	for i, item := range items {
		itemEntities[i] = toTransactionItemEntity(entity.ID, item)
	}
	if err := r.Write(ctx).Create(itemEntities).Error; err != nil {
		return nil, err
	}

	return toTransactionModel(entity), nil
}

func (r *TransactionRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.Read(ctx).Model(&TransactionEntity{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	q := applyDateRange(r.Read(ctx).Model(&TransactionEntity{}), f.DateRange)

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var entities []*TransactionEntity
	if err := q.Order("id DESC").Limit(pageSize).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toTransactionModels(entities), total, nil
}

// GetByID returns the transaction with its items in insertion order,
// or nil when no such transaction exists.
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*model.TransactionDetail, error) {
	var entity TransactionEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.loadDetail(ctx, &entity)
}

// GetByCode resolves a transaction by its human-readable code. Legacy
// rows without a code are only addressable by id.
func (r *TransactionRepository) GetByCode(ctx context.Context, code string) (*model.TransactionDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	var entity TransactionEntity
	err := r.Read(ctx).Where("code = ?", code).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.loadDetail(ctx, &entity)
}

func (r *TransactionRepository) loadDetail(ctx context.Context, entity *TransactionEntity) (*model.TransactionDetail, error) {
	var items []*TransactionItemEntity
	err := r.Read(ctx).Where("transaction_id = ?", entity.ID).Order("id ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return &model.TransactionDetail{
		Transaction: *toTransactionModel(entity),
		Items:       toTransactionItemModels(items),
	}, nil
}

// ExportRows returns the filtered transactions, newest first, for the
// CSV export.
func (r *TransactionRepository) ExportRows(ctx context.Context, dr model.DateRange) ([]*model.Transaction, error) {
	q := applyDateRange(r.Read(ctx).Model(&TransactionEntity{}), dr)

	var entities []*TransactionEntity
	if err := q.Order("id DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

// applyDateRange filters created_at with inclusive bounds in local
// time, matching the cash-register notion of a business day.
func applyDateRange(q *gorm.DB, dr model.DateRange) *gorm.DB {
	if dr.From != nil {
		q = q.Where("datetime(created_at, 'localtime') >= datetime(?)", dr.From.Format(sqlDateTime))
	}
	if dr.To != nil {
		q = q.Where("datetime(created_at, 'localtime') <= datetime(?)", dr.To.Format(sqlDateTime))
	}
	return q
}
