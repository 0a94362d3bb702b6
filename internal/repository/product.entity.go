package repository

import (
	"time"

	"github.com/smartpos/pos-engine/internal/model"
)

type ProductEntity struct {
	ID         int64     `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	Name       string    `db:"name"        gorm:"column:name;not null"`
	Barcode    *string   `db:"barcode"     gorm:"column:barcode"`
	Price      int64     `db:"price"       gorm:"column:price;not null"`
	Qty        int64     `db:"qty"         gorm:"column:qty;not null;default:0"`
	CategoryID *int64    `db:"category_id" gorm:"column:category_id;index"`
	CreatedAt  time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (ProductEntity) TableName() string {
	return "products"
}

// productRow is the list projection joined with the category name.
type productRow struct {
	ProductEntity
	CategoryName *string `gorm:"column:category_name"`
}

func toProductEntity(m *model.Product) *ProductEntity {
	if m == nil {
		return nil
	}
	return &ProductEntity{
		ID:         m.ID,
		Name:       m.Name,
		Barcode:    m.Barcode,
		Price:      m.Price,
		Qty:        m.Qty,
		CategoryID: m.CategoryID,
		CreatedAt:  m.CreatedAt,
	}
}

func toProductModel(e *ProductEntity) *model.Product {
	if e == nil {
		return nil
	}
	return &model.Product{
		ID:         e.ID,
		Name:       e.Name,
		Barcode:    e.Barcode,
		Price:      e.Price,
		Qty:        e.Qty,
		CategoryID: e.CategoryID,
		CreatedAt:  e.CreatedAt,
	}
}

func toProductRowModels(rows []*productRow) []*model.Product {
	if rows == nil {
		return nil
	}
	models := make([]*model.Product, len(rows))
	for i, row := range rows {
		m := toProductModel(&row.ProductEntity)
		m.CategoryName = row.CategoryName
		models[i] = m
	}
	return models
}
