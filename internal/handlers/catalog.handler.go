package handlers

import (
	"context"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/smartpos/pos-engine/internal/model"
	xhttp "github.com/smartpos/pos-engine/pkg/http"
)

type CatalogService interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	CreateCategory(ctx context.Context, p model.CategoryCreateRequest) (int64, error)
	UpdateCategory(ctx context.Context, p model.CategoryUpdateRequest) (bool, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)
	ListProducts(ctx context.Context, q model.ProductQuery) ([]*model.Product, int64, error)
	CreateProduct(ctx context.Context, p model.ProductWriteRequest) (int64, error)
	UpdateProduct(ctx context.Context, id int64, p model.ProductWriteRequest) (bool, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(catalogService CatalogService) *CatalogHandler {
	return &CatalogHandler{
		svc: catalogService,
	}
}

func RegisterCatalogRoutes(e *router.Group, h *CatalogHandler) {
	e.GET("/categories", h.ListCategories)
	e.POST("/categories", h.CreateCategory)
	e.PUT("/categories/{id}", h.UpdateCategory)
	e.DELETE("/categories/{id}", h.DeleteCategory)
	e.GET("/products", h.ListProducts)
	e.POST("/products", h.CreateProduct)
	e.PUT("/products/{id}", h.UpdateProduct)
	e.DELETE("/products/{id}", h.DeleteProduct)
}

type namePayload struct {
	Name string `json:"name"`
}

type productPayload struct {
	Name       string  `json:"name"`
	Barcode    string  `json:"barcode"`
	Price      float64 `json:"price"`
	Qty        float64 `json:"qty"`
	CategoryID *int64  `json:"category_id"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type productListResponse struct {
	Items []*model.Product `json:"items"`
	Total int64            `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *CatalogHandler) ListCategories(ctx *xhttp.RequestCtx) {
	items, err := h.svc.ListCategories(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, items)
}

func (h *CatalogHandler) CreateCategory(ctx *xhttp.RequestCtx) {
	var req namePayload
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	id, err := h.svc.CreateCategory(ctx, model.CategoryCreateRequest{Name: req.Name})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, idResponse{ID: id})
}

func (h *CatalogHandler) UpdateCategory(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	var req namePayload
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	ok, err := h.svc.UpdateCategory(ctx, model.CategoryUpdateRequest{ID: id, Name: req.Name})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if !ok {
		writeError(ctx, xhttp.StatusNotFound, "category not found")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okResponse{OK: true})
}

func (h *CatalogHandler) DeleteCategory(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	ok, err := h.svc.DeleteCategory(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if !ok {
		writeError(ctx, xhttp.StatusNotFound, "category not found")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okResponse{OK: true})
}

func (h *CatalogHandler) ListProducts(ctx *xhttp.RequestCtx) {
	var q model.ProductQuery
	q.Search = query(ctx, "search")
	if v := query(ctx, "category_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			q.CategoryID = &id
		}
	}
	q.Page, q.PageSize = parsePage(ctx)

	items, total, err := h.svc.ListProducts(ctx, q)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, productListResponse{Items: items, Total: total})
}

func (h *CatalogHandler) CreateProduct(ctx *xhttp.RequestCtx) {
	var req productPayload
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	id, err := h.svc.CreateProduct(ctx, model.ProductWriteRequest{
		Name:       req.Name,
		Barcode:    req.Barcode,
		Price:      req.Price,
		Qty:        req.Qty,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, idResponse{ID: id})
}

func (h *CatalogHandler) UpdateProduct(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	var req productPayload
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	ok, err := h.svc.UpdateProduct(ctx, id, model.ProductWriteRequest{
		Name:       req.Name,
		Barcode:    req.Barcode,
		Price:      req.Price,
		Qty:        req.Qty,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if !ok {
		writeError(ctx, xhttp.StatusNotFound, "product not found")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okResponse{OK: true})
}

func (h *CatalogHandler) DeleteProduct(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	ok, err := h.svc.DeleteProduct(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if !ok {
		writeError(ctx, xhttp.StatusNotFound, "product not found")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okResponse{OK: true})
}
