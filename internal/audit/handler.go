package audit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quillpress/dashboard/internal/platform/httpx"
)

var errInvalidFilter = errors.New("audit: invalid filter")

// TimelineService is the read side used by Handler.
type TimelineService interface {
	Timeline(ctx context.Context, filters TimelineFilters) (Result, error)
}

// Handler serves the audit timeline API behind gate.API.
type Handler struct {
	logger  *slog.Logger
	service TimelineService
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service TimelineService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the audit endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/audit", h.Timeline)
}

// Timeline serves GET /audit?actor=&action=&from=&to=&page=&page_size=.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid audit filter")
		return
	}
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.logger.Error("load audit timeline", slog.Any("error", err))
		httpx.ServerError(w, "Failed to fetch audit timeline")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func parseFilters(r *http.Request) (TimelineFilters, error) {
	q := r.URL.Query()
	filters := TimelineFilters{
		Actor:  strings.TrimSpace(q.Get("actor")),
		Action: strings.ToLower(strings.TrimSpace(q.Get("action"))),
	}
	var err error
	if filters.From, err = parseTime(q.Get("from")); err != nil {
		return filters, err
	}
	if filters.To, err = parseTime(q.Get("to")); err != nil {
		return filters, err
	}
	if !filters.From.IsZero() && !filters.To.IsZero() && filters.To.Before(filters.From) {
		return filters, errInvalidFilter
	}
	if filters.Page, err = parseInt(q.Get("page")); err != nil {
		return filters, err
	}
	if filters.PageSize, err = parseInt(q.Get("page_size")); err != nil {
		return filters, err
	}
	return filters, nil
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errInvalidFilter
	}
	return t, nil
}

func parseInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errInvalidFilter
	}
	return n, nil
}
