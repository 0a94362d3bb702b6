package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/smartpos/pos-engine/internal/model"
	"github.com/smartpos/pos-engine/internal/repository"
	"github.com/smartpos/pos-engine/internal/services"
	xhttp "github.com/smartpos/pos-engine/pkg/http"
)

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps the known failure modes onto the boundary's
// status codes: bad input 400, stale or conflicting state 409,
// anything else 500.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateName),
		errors.Is(err, services.ErrDuplicateBarcode),
		errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrProductNotFound):
		writeError(ctx, xhttp.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidQty),
		errors.Is(err, model.ErrInvalidPayload):
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
	default:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	}
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func pathID(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, _ := ctx.UserValue(name).(string)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

func pathString(ctx *xhttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseDateRange(ctx *xhttp.RequestCtx) model.DateRange {
	var dr model.DateRange
	if v := query(ctx, "from"); v != "" {
		if t, err := parseTime(v); err == nil {
			dr.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, err := parseTime(v); err == nil {
			dr.To = &t
		}
	}
	return dr
}

func parsePage(ctx *xhttp.RequestCtx) (page, pageSize int) {
	if v := query(ctx, "page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := query(ctx, "page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageSize = n
		}
	}
	return page, pageSize
}
