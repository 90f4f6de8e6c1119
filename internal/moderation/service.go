package moderation

import (
	"context"
	"errors"
	"time"
)

// Service wraps comment moderation rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns comments in the given moderation state, newest first.
func (s *Service) List(ctx context.Context, status Status) ([]Comment, error) {
	return s.repo.List(ctx, FilterFor(status))
}

// Apply runs a moderation action against one comment.
func (s *Service) Apply(ctx context.Context, id int64, action Action) (*Comment, error) {
	patch, err := PatchFor(action)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

// Counts summarises the moderation queue.
func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.repo.Counts(ctx)
}

// PurgeDeleted removes comments that have stayed deleted longer than retention.
func (s *Service) PurgeDeleted(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, errors.New("moderation: retention must be positive")
	}
	return s.repo.PurgeDeleted(ctx, s.now().Add(-retention))
}
