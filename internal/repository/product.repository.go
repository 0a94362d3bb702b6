package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/pkg/sqlite"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductRepository struct {
	*sqlite.DB
}

func NewProductRepository(db *sqlite.DB) *ProductRepository {
	return &ProductRepository{
		db,
	}
}

func (r *ProductRepository) List(ctx context.Context, q model.ProductQuery) ([]*model.Product, int64, error) {
	query := r.Read(ctx).
		Table("products").
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")

	if q.Search != "" {
		term := "%" + q.Search + "%"
		query = query.Where("products.name LIKE ? OR products.barcode LIKE ?", term, term)
	}
	if q.CategoryID != nil {
		query = query.Where("products.category_id = ?", *q.CategoryID)
	}

	// Count before pagination
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page <= 0 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	var rows []*productRow
	if err := query.Order("products.id DESC").Limit(pageSize).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return toProductRowModels(rows), total, nil
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*model.Product, error) {
	var entity ProductEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return toProductModel(&entity), nil
}

func (r *ProductRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	q := r.Read(ctx).Model(&ProductEntity{}).Where("lower(name) = lower(?)", name)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// BarcodeExists compares case-sensitively among non-blank barcodes.
func (r *ProductRepository) BarcodeExists(ctx context.Context, barcode string, excludeID int64) (bool, error) {
	var count int64
	q := r.Read(ctx).Model(&ProductEntity{}).Where("barcode = ?", barcode)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) (int64, error) {
	entity := toProductEntity(p)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return 0, err
	}
	return entity.ID, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	result := r.Write(ctx).Model(&ProductEntity{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"barcode":     p.Barcode,
			"price":       p.Price,
			"qty":         p.Qty,
			"category_id": p.CategoryID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.Write(ctx).Where("id = ?", id).Delete(&ProductEntity{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeductStock subtracts qty from the product's stock. It reads the
// current quantity first so a sale can never drive stock below zero;
// callers run it inside WithinTransaction so a failed line rolls back
// every stock movement of the posting.
func (r *ProductRepository) DeductStock(ctx context.Context, productID int64, qty int64) error {
	var entity ProductEntity
	err := r.Write(ctx).Where("id = ?", productID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	nextQty := entity.Qty - qty
	if nextQty < 0 {
		return fmt.Errorf("%w for %q: have %d, need %d", ErrInsufficientStock, entity.Name, entity.Qty, qty)
	}

	result := r.Write(ctx).Model(&ProductEntity{}).Where("id = ?", productID).Update("qty", nextQty)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
