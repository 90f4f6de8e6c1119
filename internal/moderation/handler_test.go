package moderation_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/dashboard/internal/audit"
	"github.com/quillpress/dashboard/internal/gate"
	"github.com/quillpress/dashboard/internal/moderation"
	"github.com/quillpress/dashboard/internal/platform/httpx"
	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
)

type memoryRepo struct {
	mu       sync.Mutex
	comments []moderation.Comment
	calls    int
	err      error
}

func (m *memoryRepo) List(ctx context.Context, filter moderation.CommentFilter) ([]moderation.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []moderation.Comment
	for _, c := range m.comments {
		if filter.Matches(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) Update(ctx context.Context, id int64, patch moderation.CommentPatch) (*moderation.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for i := range m.comments {
		c := &m.comments[i]
		if c.ID != id {
			continue
		}
		if patch.IsApproved != nil {
			c.IsApproved = *patch.IsApproved
		}
		if patch.IsDeleted != nil {
			c.IsDeleted = *patch.IsDeleted
		}
		if patch.IsReported != nil {
			c.IsReported = *patch.IsReported
		}
		out := *c
		return &out, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) Counts(ctx context.Context) (moderation.Counts, error) {
	return moderation.Counts{}, nil
}

func (m *memoryRepo) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fixedSource struct{ principal rbac.Principal }

func (f fixedSource) Resolve(*http.Request) (rbac.Principal, error) { return f.principal, nil }

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedComments() []moderation.Comment {
	mk := func(id int64, hoursAgo int, approved, deleted, reported bool) moderation.Comment {
		return moderation.Comment{
			ID: id, Content: "comment", IsApproved: approved, IsDeleted: deleted, IsReported: reported,
			CreatedAt: base.Add(-time.Duration(hoursAgo) * time.Hour),
			Author:    moderation.Author{ID: 10, Name: "Reader", Email: "reader@test.local"},
			Post:      moderation.PostSummary{ID: 20, Title: "Hello", Slug: "hello"},
		}
	}
	return []moderation.Comment{
		mk(1, 5, true, false, false),
		mk(2, 1, true, false, false),
		mk(3, 3, false, false, false),
		mk(4, 2, true, false, true),
		mk(5, 4, true, true, false),
		mk(6, 0, false, true, true),
		mk(7, 6, true, false, false),
	}
}

func newAPI(repo *memoryRepo, p rbac.Principal) http.Handler {
	return newAuditedAPI(repo, p, nil)
}

func newAuditedAPI(repo *memoryRepo, p rbac.Principal, auditor moderation.Auditor) http.Handler {
	h := moderation.NewHandler(nil, moderation.NewService(repo))
	if auditor != nil {
		h.WithAuditor(auditor)
	}
	r := chi.NewRouter()
	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(gate.API{Source: fixedSource{principal: p}}.Require)
		r.MethodNotAllowed(httpx.MethodNotAllowed)
		h.MountRoutes(r)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestEditorListsApprovedNewestFirst(t *testing.T) {
	repo := &memoryRepo{comments: seedComments()}
	api := newAPI(repo, rbac.Principal{ID: "2", Role: rbac.RoleEditor})

	w := do(t, api, http.MethodGet, "/api/dashboard/comments?status=approved")
	require.Equal(t, http.StatusOK, w.Code)

	var got []moderation.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	ids := make([]int64, 0, len(got))
	for _, c := range got {
		assert.True(t, c.IsApproved)
		assert.False(t, c.IsDeleted)
		assert.False(t, c.IsReported)
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{2, 1, 7}, ids)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt))
	}
}

func TestListIncludesAuthorAndPostSummaries(t *testing.T) {
	repo := &memoryRepo{comments: seedComments()[:1]}
	api := newAPI(repo, rbac.Principal{ID: "1", Role: rbac.RoleAdmin})

	w := do(t, api, http.MethodGet, "/api/dashboard/comments")
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, map[string]any{"id": float64(10), "name": "Reader", "image": nil, "email": "reader@test.local"}, raw[0]["author"])
	assert.Equal(t, map[string]any{"id": float64(20), "title": "Hello", "slug": "hello"}, raw[0]["post"])
	assert.Equal(t, true, raw[0]["isApproved"])
}

func TestDeletedFilterKeepsApprovalAndReportsOpen(t *testing.T) {
	repo := &memoryRepo{comments: seedComments()}
	api := newAPI(repo, rbac.Principal{ID: "1", Role: rbac.RoleAdmin})

	w := do(t, api, http.MethodGet, "/api/dashboard/comments?status=deleted")
	require.Equal(t, http.StatusOK, w.Code)

	var got []moderation.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(6), got[0].ID)
	assert.Equal(t, int64(5), got[1].ID)
}

func TestAnonymousCallerGets403WithoutDataAccess(t *testing.T) {
	repo := &memoryRepo{comments: seedComments()}
	api := newAPI(repo, rbac.Anonymous())

	w := do(t, api, http.MethodGet, "/api/dashboard/comments")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = do(t, api, http.MethodPost, "/api/dashboard/comments/1/approve")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, repo.calls)
}

func TestNonOperatorGets403(t *testing.T) {
	repo := &memoryRepo{comments: seedComments()}
	api := newAPI(repo, rbac.Principal{ID: "9", Role: rbac.RoleUser})

	w := do(t, api, http.MethodGet, "/api/dashboard/comments")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, repo.calls)
}

func TestAdminPostToListIs405(t *testing.T) {
	repo := &memoryRepo{comments: seedComments()}
	api := newAPI(repo, rbac.Principal{ID: "1", Role: rbac.RoleAdmin})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := do(t, api, method, "/api/dashboard/comments")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
	}
	assert.Zero(t, repo.calls)
}

func TestInvalidStatusIs400(t *testing.T) {
	repo := &memoryRepo{comments: seedComments()}
	api := newAPI(repo, rbac.Principal{ID: "1", Role: rbac.RoleAdmin})

	w := do(t, api, http.MethodGet, "/api/dashboard/comments?status=spam")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid status filter"}`, w.Body.String())
	assert.Zero(t, repo.calls)
}

func TestDataAccessFailureIs500(t *testing.T) {
	repo := &memoryRepo{err: errors.New("connection refused to 10.0.0.5")}
	api := newAPI(repo, rbac.Principal{ID: "1", Role: rbac.RoleAdmin})

	w := do(t, api, http.MethodGet, "/api/dashboard/comments")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","message":"Failed to fetch comments"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestModerationActions(t *testing.T) {
	repo := &memoryRepo{comments: seedComments()}
	api := newAPI(repo, rbac.Principal{ID: "2", Role: rbac.RoleEditor})

	w := do(t, api, http.MethodPost, "/api/dashboard/comments/4/approve")
	require.Equal(t, http.StatusOK, w.Code)
	var c moderation.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.True(t, c.IsApproved)
	assert.False(t, c.IsReported)

	w = do(t, api, http.MethodPost, "/api/dashboard/comments/5/restore")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.False(t, c.IsDeleted)

	w = do(t, api, http.MethodPost, "/api/dashboard/comments/99/delete")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())

	w = do(t, api, http.MethodPost, "/api/dashboard/comments/1/ban")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, api, http.MethodPost, "/api/dashboard/comments/abc/approve")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type recordingAuditor struct {
	entries []audit.Entry
	err     error
}

func (a *recordingAuditor) Record(_ context.Context, entry audit.Entry) error {
	a.entries = append(a.entries, entry)
	return a.err
}

func TestModerationActionsAreAudited(t *testing.T) {
	repo := &memoryRepo{comments: seedComments()}
	auditor := &recordingAuditor{}
	api := newAuditedAPI(repo, rbac.Principal{ID: "2", Role: rbac.RoleEditor}, auditor)

	w := do(t, api, http.MethodPost, "/api/dashboard/comments/3/approve")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, api, http.MethodPost, "/api/dashboard/comments/99/delete")
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, api, http.MethodGet, "/api/dashboard/comments")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, auditor.entries, 1)
	assert.Equal(t, audit.Entry{Actor: "2", Action: "approve", Entity: "comment", EntityID: "3"}, auditor.entries[0])

	auditor.err = errors.New("audit table missing")
	w = do(t, api, http.MethodPost, "/api/dashboard/comments/3/report")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, auditor.entries, 2)
}
