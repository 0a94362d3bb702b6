package model

import (
	"errors"
	"strings"
	"time"
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryCreateRequest is the input for creating a category.
type CategoryCreateRequest struct {
	Name string
}

func (p CategoryCreateRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("category name is required")
	}
	return nil
}

type CategoryUpdateRequest struct {
	ID   int64
	Name string
}

func (p CategoryUpdateRequest) Validate() error {
	if p.ID <= 0 {
		return errors.New("category id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("category name is required")
	}
	return nil
}
