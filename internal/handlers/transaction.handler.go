package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/smartpos/pos-engine/internal/model"
	xhttp "github.com/smartpos/pos-engine/pkg/http"
)

type LedgerService interface {
	SaveTransaction(ctx context.Context, req model.SaveTransactionRequest) (*model.PostedTransaction, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error)
	GetDetailByID(ctx context.Context, id int64) (*model.TransactionDetail, error)
	GetDetailByCode(ctx context.Context, code string) (*model.TransactionDetail, error)
}

type ReceiptService interface {
	PrintByID(ctx context.Context, id int64) (bool, error)
	PrintByCode(ctx context.Context, code string) (bool, error)
}

type TransactionHandler struct {
	svc      LedgerService
	receipts ReceiptService
}

func NewTransactionHandler(ledgerService LedgerService, receiptService ReceiptService) *TransactionHandler {
	return &TransactionHandler{
		svc:      ledgerService,
		receipts: receiptService,
	}
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler) {
	e.POST("/transactions", h.SaveTransaction)
	e.GET("/transactions", h.ListTransactions)
	e.GET("/transactions/{id}", h.GetTransaction)
	e.GET("/transactions/code/{code}", h.GetTransactionByCode)
	e.POST("/transactions/{id}/print", h.PrintTransaction)
	e.POST("/transactions/code/{code}/print", h.PrintTransactionByCode)
}

type transactionListResponse struct {
	Items []*model.Transaction `json:"items"`
	Total int64                `json:"total"`
}

type printedResponse struct {
	Printed bool `json:"printed"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *TransactionHandler) SaveTransaction(ctx *xhttp.RequestCtx) {
	var req model.SaveTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	posted, err := h.svc.SaveTransaction(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, posted)
}

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	var f model.TransactionFilter
	f.DateRange = parseDateRange(ctx)
	f.Page, f.PageSize = parsePage(ctx)

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, transactionListResponse{Items: items, Total: total})
}

func (h *TransactionHandler) GetTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	detail, err := h.svc.GetDetailByID(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if detail == nil {
		writeError(ctx, xhttp.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, detail)
}

func (h *TransactionHandler) GetTransactionByCode(ctx *xhttp.RequestCtx) {
	detail, err := h.svc.GetDetailByCode(ctx, pathString(ctx, "code"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if detail == nil {
		writeError(ctx, xhttp.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, detail)
}

func (h *TransactionHandler) PrintTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	printed, err := h.receipts.PrintByID(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, printedResponse{Printed: printed})
}

func (h *TransactionHandler) PrintTransactionByCode(ctx *xhttp.RequestCtx) {
	printed, err := h.receipts.PrintByCode(ctx, pathString(ctx, "code"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, printedResponse{Printed: printed})
}
