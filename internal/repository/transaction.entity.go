package repository

import (
	"time"

	"github.com/smartpos/pos-engine/internal/model"
)

type TransactionEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Code      *string   `db:"code"       gorm:"column:code"`
	Subtotal  int64     `db:"subtotal"   gorm:"column:subtotal"`
	TaxAmount int64     `db:"tax_amount" gorm:"column:tax_amount"`
	Total     int64     `db:"total"      gorm:"column:total;not null"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime;index"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

type TransactionItemEntity struct {
	ID            int64  `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	TransactionID int64  `db:"transaction_id" gorm:"column:transaction_id;not null;index"`
	ProductID     *int64 `db:"product_id"     gorm:"column:product_id"`
	Name          string `db:"name"           gorm:"column:name;not null"`
	Qty           int64  `db:"qty"            gorm:"column:qty;not null"`
	Price         int64  `db:"price"          gorm:"column:price;not null"`
	LineTotal     int64  `db:"line_total"     gorm:"column:line_total;not null"`
}

func (TransactionItemEntity) TableName() string {
	return "transaction_items"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:        m.ID,
		Code:      m.Code,
		Subtotal:  m.Subtotal,
		TaxAmount: m.TaxAmount,
		Total:     m.Total,
		CreatedAt: m.CreatedAt,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:        e.ID,
		Code:      e.Code,
		Subtotal:  e.Subtotal,
		TaxAmount: e.TaxAmount,
		Total:     e.Total,
		CreatedAt: e.CreatedAt,
	}
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	if entities == nil {
		return nil
	}
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}

func toTransactionItemEntity(transactionID int64, m model.TransactionItem) *TransactionItemEntity {
	return &TransactionItemEntity{
		TransactionID: transactionID,
		ProductID:     m.ProductID,
		Name:          m.Name,
		Qty:           m.Qty,
		Price:         m.Price,
		LineTotal:     m.LineTotal,
	}
}

func toTransactionItemModel(e *TransactionItemEntity) model.TransactionItem {
	return model.TransactionItem{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		ProductID:     e.ProductID,
		Name:          e.Name,
		Qty:           e.Qty,
		Price:         e.Price,
		LineTotal:     e.LineTotal,
	}
}

func toTransactionItemModels(entities []*TransactionItemEntity) []model.TransactionItem {
	models := make([]model.TransactionItem, len(entities))
	for i, e := range entities {
		models[i] = toTransactionItemModel(e)
	}
	return models
}
