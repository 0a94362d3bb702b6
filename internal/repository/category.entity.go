package repository

import (
	"time"

	"github.com/smartpos/pos-engine/internal/model"
)

type CategoryEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `db:"name"       gorm:"column:name;not null;unique"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (CategoryEntity) TableName() string {
	return "categories"
}

func toCategoryModel(e *CategoryEntity) *model.Category {
	if e == nil {
		return nil
	}
	return &model.Category{
		ID:        e.ID,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
	}
}

func toCategoryModels(entities []*CategoryEntity) []*model.Category {
	if entities == nil {
		return nil
	}
	models := make([]*model.Category, len(entities))
	for i, e := range entities {
		models[i] = toCategoryModel(e)
	}
	return models
}
