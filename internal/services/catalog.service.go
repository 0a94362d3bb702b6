package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/smartpos/pos-engine/internal/model"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateName    = errors.New("name is already in use")
	ErrDuplicateBarcode = errors.New("barcode is already in use")
	ErrInvalidPrice     = errors.New("price must be greater than zero")
	ErrInvalidQty       = errors.New("qty must not be negative")
)

type CategoryRepository interface {
	List(ctx context.Context) ([]*model.Category, error)
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, name string) (int64, error)
	Update(ctx context.Context, id int64, name string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ProductRepository interface {
	List(ctx context.Context, q model.ProductQuery) ([]*model.Product, int64, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	BarcodeExists(ctx context.Context, barcode string, excludeID int64) (bool, error)
	Create(ctx context.Context, p *model.Product) (int64, error)
	Update(ctx context.Context, p *model.Product) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CatalogService owns category and product maintenance. All writes
// normalize their input first, so the stored rows never carry leading
// or trailing whitespace and monetary fields are always integers.
type CatalogService struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
}

func NewCatalogService(categoryRepo CategoryRepository, productRepo ProductRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, p model.CategoryCreateRequest) (int64, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return 0, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	exists, err := s.categoryRepo.NameExists(ctx, name, 0)
	if err != nil {
		return 0, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return 0, fmt.Errorf("category %w", ErrDuplicateName)
	}

	return s.categoryRepo.Create(ctx, name)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, p model.CategoryUpdateRequest) (bool, error) {
	if p.ID <= 0 {
		return false, fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return false, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	exists, err := s.categoryRepo.NameExists(ctx, name, p.ID)
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return false, fmt.Errorf("category %w", ErrDuplicateName)
	}

	return s.categoryRepo.Update(ctx, p.ID, name)
}

// DeleteCategory removes the category. Products keep existing with
// their category reference cleared by the schema's ON DELETE SET NULL.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, q model.ProductQuery) ([]*model.Product, int64, error) {
	q.Search = strings.TrimSpace(q.Search)
	return s.productRepo.List(ctx, q)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return s.productRepo.Get(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p model.ProductWriteRequest) (int64, error) {
	product, err := s.normalizeProduct(ctx, p, 0)
	if err != nil {
		return 0, err
	}
	return s.productRepo.Create(ctx, product)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, p model.ProductWriteRequest) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	product, err := s.normalizeProduct(ctx, p, id)
	if err != nil {
		return false, err
	}
	product.ID = id
	return s.productRepo.Update(ctx, product)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	return s.productRepo.Delete(ctx, id)
}

// normalizeProduct validates a write request and turns it into a
// storable product. excludeID is the product being updated, 0 on
// create, so uniqueness probes skip the row itself.
func (s *CatalogService) normalizeProduct(ctx context.Context, p model.ProductWriteRequest, excludeID int64) (*model.Product, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}

	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return nil, ErrInvalidPrice
	}
	price := int64(math.Round(p.Price))
	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	if math.IsNaN(p.Qty) || math.IsInf(p.Qty, 0) {
		return nil, ErrInvalidQty
	}
	qty := int64(math.Round(p.Qty))
	if qty < 0 {
		return nil, ErrInvalidQty
	}

	exists, err := s.productRepo.NameExists(ctx, name, excludeID)
	if err != nil {
		return nil, fmt.Errorf("check product name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("product %w", ErrDuplicateName)
	}

	var barcode *string
	if b := strings.TrimSpace(p.Barcode); b != "" {
		taken, err := s.productRepo.BarcodeExists(ctx, b, excludeID)
		if err != nil {
			return nil, fmt.Errorf("check barcode: %w", err)
		}
		if taken {
			return nil, ErrDuplicateBarcode
		}
		barcode = &b
	}

	return &model.Product{
		Name:       name,
		Barcode:    barcode,
		Price:      price,
		Qty:        qty,
		CategoryID: p.CategoryID,
	}, nil
}
