package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/internal/services"
	xhttp "github.com/smartpos/pos-engine/pkg/http"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, p model.CategoryCreateRequest) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, p model.CategoryUpdateRequest) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogService) ListProducts(ctx context.Context, q model.ProductQuery) ([]*model.Product, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, p model.ProductWriteRequest) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id int64, p model.ProductWriteRequest) (bool, error) {
	args := m.Called(ctx, id, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func TestCatalogHandler_CreateCategory(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		svc := new(MockCatalogService)
		handler := NewCatalogHandler(svc)

		svc.On("CreateCategory", mock.Anything, model.CategoryCreateRequest{Name: "Drinks"}).
			Return(int64(7), nil)

		ctx := setupTestContext("POST", "/api/v1/categories", []byte(`{"name":"Drinks"}`))
		handler.CreateCategory(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var resp idResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, int64(7), resp.ID)

		svc.AssertExpectations(t)
	})

	t.Run("duplicate name maps to 409", func(t *testing.T) {
		svc := new(MockCatalogService)
		handler := NewCatalogHandler(svc)

		svc.On("CreateCategory", mock.Anything, mock.Anything).
			Return(int64(0), fmt.Errorf("category %w", services.ErrDuplicateName))

		ctx := setupTestContext("POST", "/api/v1/categories", []byte(`{"name":"Drinks"}`))
		handler.CreateCategory(ctx)

		assert.Equal(t, 409, ctx.Response.StatusCode())
	})

	t.Run("invalid JSON maps to 400", func(t *testing.T) {
		svc := new(MockCatalogService)
		handler := NewCatalogHandler(svc)

		ctx := setupTestContext("POST", "/api/v1/categories", []byte("not json"))
		handler.CreateCategory(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestCatalogHandler_UpdateCategory(t *testing.T) {
	t.Run("missing row maps to 404", func(t *testing.T) {
		svc := new(MockCatalogService)
		handler := NewCatalogHandler(svc)

		svc.On("UpdateCategory", mock.Anything, model.CategoryUpdateRequest{ID: 9, Name: "Snacks"}).
			Return(false, nil)

		ctx := setupTestContext("PUT", "/api/v1/categories/9", []byte(`{"name":"Snacks"}`))
		ctx.SetUserValue("id", "9")
		handler.UpdateCategory(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("non-numeric id maps to 400", func(t *testing.T) {
		svc := new(MockCatalogService)
		handler := NewCatalogHandler(svc)

		ctx := setupTestContext("PUT", "/api/v1/categories/abc", []byte(`{"name":"Snacks"}`))
		ctx.SetUserValue("id", "abc")
		handler.UpdateCategory(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	svc := new(MockCatalogService)
	handler := NewCatalogHandler(svc)

	svc.On("ListProducts", mock.Anything, mock.MatchedBy(func(q model.ProductQuery) bool {
		return q.Search == "cof" && q.CategoryID != nil && *q.CategoryID == 3 && q.Page == 2 && q.PageSize == 10
	})).Return([]*model.Product{{ID: 1, Name: "Coffee"}}, int64(11), nil)

	ctx := setupTestContext("GET", "/api/v1/products?search=cof&category_id=3&page=2&page_size=10", nil)
	handler.ListProducts(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var resp productListResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, int64(11), resp.Total)
	assert.Len(t, resp.Items, 1)

	svc.AssertExpectations(t)
}

func TestCatalogHandler_CreateProduct(t *testing.T) {
	t.Run("invalid price maps to 400", func(t *testing.T) {
		svc := new(MockCatalogService)
		handler := NewCatalogHandler(svc)

		svc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(int64(0), services.ErrInvalidPrice)

		ctx := setupTestContext("POST", "/api/v1/products", []byte(`{"name":"Coffee","price":0,"qty":1}`))
		handler.CreateProduct(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("duplicate barcode maps to 409", func(t *testing.T) {
		svc := new(MockCatalogService)
		handler := NewCatalogHandler(svc)

		svc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(int64(0), services.ErrDuplicateBarcode)

		ctx := setupTestContext("POST", "/api/v1/products", []byte(`{"name":"Coffee","barcode":"899","price":100,"qty":1}`))
		handler.CreateProduct(ctx)

		assert.Equal(t, 409, ctx.Response.StatusCode())
	})

	t.Run("passes the payload through", func(t *testing.T) {
		svc := new(MockCatalogService)
		handler := NewCatalogHandler(svc)

		svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p model.ProductWriteRequest) bool {
			return p.Name == "Coffee" && p.Price == 12000 && p.Qty == 10 && p.CategoryID != nil && *p.CategoryID == 3
		})).Return(int64(5), nil)

		ctx := setupTestContext("POST", "/api/v1/products", []byte(`{"name":"Coffee","price":12000,"qty":10,"category_id":3}`))
		handler.CreateProduct(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestCatalogHandler_DeleteProduct(t *testing.T) {
	svc := new(MockCatalogService)
	handler := NewCatalogHandler(svc)

	svc.On("DeleteProduct", mock.Anything, int64(4)).Return(true, nil)

	ctx := setupTestContext("DELETE", "/api/v1/products/4", nil)
	ctx.SetUserValue("id", "4")
	handler.DeleteProduct(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var resp okResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.True(t, resp.OK)
}
