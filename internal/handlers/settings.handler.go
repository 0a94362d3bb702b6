package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/smartpos/pos-engine/internal/model"
	xhttp "github.com/smartpos/pos-engine/pkg/http"
)

type SettingsService interface {
	Get(ctx context.Context) (*model.StoreSettings, error)
	Update(ctx context.Context, p model.SettingsUpdateRequest) (bool, error)
}

type SettingsHandler struct {
	svc SettingsService
}

func NewSettingsHandler(settingsService SettingsService) *SettingsHandler {
	return &SettingsHandler{
		svc: settingsService,
	}
}

func RegisterSettingsRoutes(e *router.Group, h *SettingsHandler) {
	e.GET("/settings", h.GetSettings)
	e.PUT("/settings", h.UpdateSettings)
}

func (h *SettingsHandler) GetSettings(ctx *xhttp.RequestCtx) {
	settings, err := h.svc.Get(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSettings(ctx *xhttp.RequestCtx) {
	var req model.SettingsUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	ok, err := h.svc.Update(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okResponse{OK: ok})
}
