package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/dashboard/internal/content"
	"github.com/quillpress/dashboard/internal/moderation"
	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
	"github.com/quillpress/dashboard/internal/view"
)

type stubComments struct {
	comments []moderation.Comment
	counts   moderation.Counts
	status   moderation.Status
	err      error
}

func (s *stubComments) List(ctx context.Context, status moderation.Status) ([]moderation.Comment, error) {
	s.status = status
	return s.comments, s.err
}

func (s *stubComments) Counts(ctx context.Context) (moderation.Counts, error) {
	return s.counts, s.err
}

type stubPosts struct {
	posts []content.Post
	err   error
}

func (s *stubPosts) List(ctx context.Context, req content.ListPostsRequest) ([]content.Post, error) {
	return s.posts, s.err
}

func (s *stubPosts) Count(ctx context.Context) (int64, error) {
	return int64(len(s.posts)), s.err
}

func newRouter(t *testing.T, comments *stubComments, posts *stubPosts) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	h := NewHandler(nil, templates, shared.NewCSRFManager("csrf"), comments, posts)
	r := chi.NewRouter()
	r.Route("/dashboard", h.MountRoutes)
	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	p := rbac.Principal{ID: "1", Role: rbac.RoleAdmin, Name: "Ada", Email: "ada@test.local"}
	req = req.WithContext(rbac.ContextWithPrincipal(req.Context(), p))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestOverviewShowsCounts(t *testing.T) {
	comments := &stubComments{counts: moderation.Counts{Pending: 4, Reported: 2}}
	posts := &stubPosts{posts: []content.Post{{ID: 1}, {ID: 2}, {ID: 3}}}

	w := get(newRouter(t, comments, posts), "/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<th>Pending comments</th><td>4</td>")
	assert.Contains(t, body, "<th>Reported comments</th><td>2</td>")
	assert.Contains(t, body, "<th>Posts</th><td>3</td>")
	assert.Contains(t, body, "Ada (ADMIN)")
}

func TestOverviewFailure(t *testing.T) {
	w := get(newRouter(t, &stubComments{err: errors.New("down")}, &stubPosts{}), "/dashboard")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCommentsPageFiltersByStatus(t *testing.T) {
	comments := &stubComments{comments: []moderation.Comment{{
		ID: 1, Content: "Great read", CreatedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		Author: moderation.Author{Name: "Reader"},
		Post:   moderation.PostSummary{Title: "Hello", Slug: "hello"},
	}}}
	h := newRouter(t, comments, &stubPosts{})

	w := get(h, "/dashboard/comments?status=reported")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, moderation.StatusReported, comments.status)
	assert.Contains(t, w.Body.String(), "Great read")
	assert.Contains(t, w.Body.String(), "02 Jan 2024 03:04")

	w = get(h, "/dashboard/comments?status=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostsPage(t *testing.T) {
	posts := &stubPosts{posts: []content.Post{{ID: 1, Title: "Launch", Slug: "launch", Published: true}}}
	w := get(newRouter(t, &stubComments{}, posts), "/dashboard/posts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Launch")
	assert.Contains(t, w.Body.String(), "Published")
}
