// Package dashboard serves the operator pages under /dashboard.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/quillpress/dashboard/internal/content"
	"github.com/quillpress/dashboard/internal/moderation"
	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
	"github.com/quillpress/dashboard/internal/view"
)

// CommentSource lists and counts comments. *moderation.Service implements it.
type CommentSource interface {
	List(ctx context.Context, status moderation.Status) ([]moderation.Comment, error)
	Counts(ctx context.Context) (moderation.Counts, error)
}

// PostSource lists and counts posts. *content.Service implements it.
type PostSource interface {
	List(ctx context.Context, req content.ListPostsRequest) ([]content.Post, error)
	Count(ctx context.Context) (int64, error)
}

// Handler renders the dashboard pages. It must be mounted behind
// gate.Layout.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	csrf      *shared.CSRFManager
	comments  CommentSource
	posts     PostSource
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, templates *view.Engine, csrf *shared.CSRFManager, comments CommentSource, posts PostSource) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, templates: templates, csrf: csrf, comments: comments, posts: posts}
}

// MountRoutes registers the dashboard pages.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.overview)
	r.Get("/comments", h.commentsPage)
	r.Get("/posts", h.postsPage)
}

type overviewData struct {
	Pending  int64
	Reported int64
	Posts    int64
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	var data overviewData
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		counts, err := h.comments.Counts(ctx)
		if err != nil {
			return err
		}
		data.Pending, data.Reported = counts.Pending, counts.Reported
		return nil
	})
	g.Go(func() error {
		n, err := h.posts.Count(ctx)
		data.Posts = n
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("load dashboard overview", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "Dashboard", "pages/dashboard.html", data)
}

func (h *Handler) commentsPage(w http.ResponseWriter, r *http.Request) {
	status, err := moderation.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "Invalid status filter", http.StatusBadRequest)
		return
	}
	comments, err := h.comments.List(r.Context(), status)
	if err != nil {
		h.logger.Error("load comments page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "Comments", "pages/comments.html", map[string]any{
		"Comments": comments,
		"Status":   string(status),
	})
}

func (h *Handler) postsPage(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context(), content.ListPostsRequest{})
	if err != nil {
		h.logger.Error("load posts page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "Posts", "pages/posts.html", map[string]any{"Posts": posts})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, title, page string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(sess)
	var flash *shared.FlashMessage
	var user *shared.Identity
	if sess != nil {
		flash = sess.PopFlash()
		if id := sess.Identity(); id.UserID != "" {
			user = &id
		}
	}
	if p, ok := rbac.PrincipalFromContext(r.Context()); user == nil && ok && p.IsAuthenticated() {
		user = &shared.Identity{UserID: p.ID, Role: p.Role.String(), Name: p.Name, Email: p.Email}
	}
	if err := h.templates.Render(w, page, view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        user,
		Data:        data,
	}); err != nil {
		h.logger.Error("render page", slog.String("page", page), slog.Any("error", err))
	}
}
