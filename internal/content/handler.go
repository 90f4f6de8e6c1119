package content

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quillpress/dashboard/internal/platform/httpx"
	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
)

// Handler serves the post management API behind gate.API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the post endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/posts", h.List)
	r.Post("/posts", h.Create)
	r.Post("/posts/{id}/publish", h.setPublished(true))
	r.Post("/posts/{id}/unpublish", h.setPublished(false))
}

// List serves GET /posts?published=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var req ListPostsRequest
	if raw := r.URL.Query().Get("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "Invalid published filter")
			return
		}
		req.Published = &published
	}
	posts, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list posts", slog.Any("error", err))
		httpx.ServerError(w, "Failed to fetch posts")
		return
	}
	httpx.JSON(w, http.StatusOK, posts)
}

// Create serves POST /posts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	principal, _ := rbac.PrincipalFromContext(r.Context())
	post, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		if errors.Is(err, httpx.ErrValidation) {
			httpx.Error(w, http.StatusBadRequest, "Title and content are required")
			return
		}
		if !errors.Is(err, shared.ErrDuplicate) {
			h.logger.Error("create post", slog.Any("error", err))
		}
		httpx.RespondError(w, err, "Failed to create post")
		return
	}
	h.logger.Info("post created", slog.Int64("id", post.ID), slog.String("slug", post.Slug), slog.String("by", principal.ID))
	httpx.JSON(w, http.StatusCreated, post)
}

func (h *Handler) setPublished(published bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			httpx.Error(w, http.StatusBadRequest, "Invalid post id")
			return
		}
		var post *Post
		if published {
			post, err = h.service.Publish(r.Context(), id)
		} else {
			post, err = h.service.Unpublish(r.Context(), id)
		}
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				h.logger.Error("set post published", slog.Int64("id", id), slog.Any("error", err))
			}
			httpx.RespondError(w, err, "Failed to update post")
			return
		}
		httpx.JSON(w, http.StatusOK, post)
	}
}
