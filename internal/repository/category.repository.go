package repository

import (
	"context"

	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/pkg/sqlite"
)

type CategoryRepository struct {
	*sqlite.DB
}

func NewCategoryRepository(db *sqlite.DB) *CategoryRepository {
	return &CategoryRepository{
		db,
	}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	var entities []*CategoryEntity
	if err := r.Read(ctx).Order("name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toCategoryModels(entities), nil
}

// NameExists reports whether another category already uses the name,
// compared case-insensitively. excludeID skips the row being updated.
func (r *CategoryRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	q := r.Read(ctx).Model(&CategoryEntity{}).Where("lower(name) = lower(?)", name)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (int64, error) {
	entity := &CategoryEntity{Name: name}
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return 0, err
	}
	return entity.ID, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, name string) (bool, error) {
	result := r.Write(ctx).Model(&CategoryEntity{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete hard-deletes the category. The schema's ON DELETE SET NULL
// detaches referencing products.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.Write(ctx).Where("id = ?", id).Delete(&CategoryEntity{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
