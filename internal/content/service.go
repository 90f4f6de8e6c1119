package content

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/quillpress/dashboard/internal/platform/httpx"
	"github.com/quillpress/dashboard/internal/rbac"
)

// Service wraps post management rules.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// List returns posts newest first.
func (s *Service) List(ctx context.Context, req ListPostsRequest) ([]Post, error) {
	return s.repo.List(ctx, req)
}

// Create validates req and stores a post authored by the principal.
func (s *Service) Create(ctx context.Context, author rbac.Principal, req CreatePostRequest) (*Post, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	slug := Slugify(req.Title)
	if slug == "" {
		return nil, fmt.Errorf("%w: title has no usable characters", httpx.ErrValidation)
	}
	authorID, err := strconv.ParseInt(author.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("content: author id %q: %w", author.ID, err)
	}
	return s.repo.Create(ctx, Post{
		Title:     req.Title,
		Slug:      slug,
		Content:   req.Content,
		Published: req.Published,
		AuthorID:  authorID,
	})
}

// Publish marks a post as published.
func (s *Service) Publish(ctx context.Context, id int64) (*Post, error) {
	return s.repo.SetPublished(ctx, id, true)
}

// Unpublish hides a post.
func (s *Service) Unpublish(ctx context.Context, id int64) (*Post, error) {
	return s.repo.SetPublished(ctx, id, false)
}

// Count returns the number of posts.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
