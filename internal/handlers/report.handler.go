package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/smartpos/pos-engine/internal/model"
	xhttp "github.com/smartpos/pos-engine/pkg/http"
)

type ReportService interface {
	Dashboard(ctx context.Context) (*model.DashboardSummary, error)
	Summary(ctx context.Context, dr model.DateRange) (*model.ReportSummary, error)
	Series(ctx context.Context, q model.ReportSeriesQuery) ([]model.SeriesBucket, error)
	Export(ctx context.Context, dr model.DateRange) (string, error)
}

type ReportHandler struct {
	svc ReportService
}

func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{
		svc: reportService,
	}
}

func RegisterReportRoutes(e *router.Group, h *ReportHandler) {
	e.GET("/reports/dashboard", h.Dashboard)
	e.GET("/reports/summary", h.Summary)
	e.GET("/reports/series", h.Series)
	e.POST("/reports/export", h.Export)
}

type seriesResponse struct {
	Buckets []model.SeriesBucket `json:"buckets"`
}

type exportResponse struct {
	Path string `json:"path"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *ReportHandler) Dashboard(ctx *xhttp.RequestCtx) {
	summary, err := h.svc.Dashboard(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, summary)
}

func (h *ReportHandler) Summary(ctx *xhttp.RequestCtx) {
	summary, err := h.svc.Summary(ctx, parseDateRange(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, summary)
}

func (h *ReportHandler) Series(ctx *xhttp.RequestCtx) {
	q := model.ReportSeriesQuery{
		DateRange: parseDateRange(ctx),
		GroupBy:   model.GroupBy(query(ctx, "group_by")),
	}
	buckets, err := h.svc.Series(ctx, q)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if buckets == nil {
		buckets = []model.SeriesBucket{}
	}
	writeJSON(ctx, xhttp.StatusOK, seriesResponse{Buckets: buckets})
}

func (h *ReportHandler) Export(ctx *xhttp.RequestCtx) {
	path, err := h.svc.Export(ctx, parseDateRange(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if path == "" {
		writeError(ctx, xhttp.StatusNotFound, "no transactions to export")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, exportResponse{Path: path})
}
