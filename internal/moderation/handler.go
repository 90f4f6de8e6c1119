package moderation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quillpress/dashboard/internal/audit"
	"github.com/quillpress/dashboard/internal/platform/httpx"
	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
)

// Handler serves the moderation API. It expects to be mounted behind
// gate.API so the caller is already known to be an operator.
type Handler struct {
	logger  *slog.Logger
	service *Service
	auditor Auditor
}

// Auditor records applied moderation actions.
type Auditor interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// WithAuditor makes Act record every applied action.
func (h *Handler) WithAuditor(a Auditor) *Handler {
	h.auditor = a
	return h
}

// List serves GET /comments?status=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status, err := ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid status filter")
		return
	}
	comments, err := h.service.List(r.Context(), status)
	if err != nil {
		h.logger.Error("list comments", slog.String("status", string(status)), slog.Any("error", err))
		httpx.ServerError(w, "Failed to fetch comments")
		return
	}
	if comments == nil {
		comments = []Comment{}
	}
	httpx.JSON(w, http.StatusOK, comments)
}

// Act serves POST /comments/{id}/{action}.
func (h *Handler) Act(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	action, err := ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid moderation action")
		return
	}

	comment, err := h.service.Apply(r.Context(), id, action)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("moderate comment", slog.Int64("id", id), slog.String("action", string(action)), slog.Any("error", err))
		}
		httpx.RespondError(w, err, "Failed to update comment")
		return
	}

	principal, _ := rbac.PrincipalFromContext(r.Context())
	h.logger.Info("comment moderated",
		slog.Int64("id", id), slog.String("action", string(action)), slog.String("by", principal.ID))
	if h.auditor != nil {
		entry := audit.Entry{
			Actor:    principal.ID,
			Action:   string(action),
			Entity:   "comment",
			EntityID: strconv.FormatInt(id, 10),
		}
		if err := h.auditor.Record(r.Context(), entry); err != nil {
			h.logger.Warn("record moderation audit", slog.Int64("id", id), slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusOK, comment)
}
