package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/quillpress/dashboard/internal/jobs"
)

type stubPurger struct {
	retention time.Duration
	purged    int64
	err       error
}

func (s *stubPurger) PurgeDeleted(ctx context.Context, retention time.Duration) (int64, error) {
	s.retention = retention
	return s.purged, s.err
}

func TestCommentsPurgeUsesConfiguredRetention(t *testing.T) {
	purger := &stubPurger{purged: 2}
	job := NewCommentsPurgeJob(purger, 72*time.Hour, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewCommentsPurgeTask(CommentsPurgePayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 72*time.Hour, purger.retention)
}

func TestCommentsPurgePayloadOverridesRetention(t *testing.T) {
	purger := &stubPurger{}
	job := NewCommentsPurgeJob(purger, 72*time.Hour, nil, nil)

	task, err := NewCommentsPurgeTask(CommentsPurgePayload{RetentionHours: 6})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 6*time.Hour, purger.retention)
}

func TestCommentsPurgeFailures(t *testing.T) {
	boom := errors.New("db down")
	job := NewCommentsPurgeJob(&stubPurger{err: boom}, time.Hour, nil, nil)
	task, err := NewCommentsPurgeTask(CommentsPurgePayload{})
	require.NoError(t, err)
	assert.ErrorIs(t, job.Handle(context.Background(), task), boom)

	bad := asynq.NewTask(TaskCommentsPurge, []byte("{"))
	assert.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)

	var unset *CommentsPurgeJob
	assert.Error(t, unset.Handle(context.Background(), task))
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

type stubEnqueuer struct {
	calls int
	err   error
}

func (s *stubEnqueuer) EnqueueCommentsPurge(ctx context.Context, payload CommentsPurgePayload) (*asynq.TaskInfo, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault}, nil
}

func serve(h *Handler, method, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHealthReportsQueueInfo(t *testing.T) {
	h := NewHandler(stubInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 3, Failed: 1}}, nil, nil)
	w := serve(h, http.MethodGet, "/jobs/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"queue":"default","pending":3,"active":0,"scheduled":0,"retry":0,"failed":1}`, w.Body.String())

	h = NewHandler(stubInspector{err: errors.New("redis down")}, nil, nil)
	w = serve(h, http.MethodGet, "/jobs/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	h = NewHandler(nil, nil, nil)
	w = serve(h, http.MethodGet, "/jobs/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPurgeEndpointEnqueues(t *testing.T) {
	enq := &stubEnqueuer{}
	w := serve(NewHandler(nil, enq, nil), http.MethodPost, "/jobs/purge")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"id":"task-1","queue":"default"}`, w.Body.String())
	assert.Equal(t, 1, enq.calls)

	w = serve(NewHandler(nil, &stubEnqueuer{err: errors.New("down")}, nil), http.MethodPost, "/jobs/purge")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = serve(NewHandler(nil, nil, nil), http.MethodPost, "/jobs/purge")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
