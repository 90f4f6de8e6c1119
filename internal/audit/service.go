package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidEntry is returned when an entry lacks an actor or action.
var ErrInvalidEntry = errors.New("audit: entry requires actor and action")

// WindowParams is the repository query for one timeline page.
type WindowParams struct {
	From   time.Time
	To     time.Time
	Actor  string
	Action string
	Offset int
	Limit  int
}

// Repository persists audit entries.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	Window(ctx context.Context, params WindowParams) ([]Entry, error)
}

// Service records and pages moderation audit entries.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores entry, stamping the current time when At is zero.
func (s *Service) Record(ctx context.Context, entry Entry) error {
	if s.repo == nil {
		return fmt.Errorf("audit: repository not configured")
	}
	entry.Actor = strings.TrimSpace(entry.Actor)
	entry.Action = strings.TrimSpace(entry.Action)
	if entry.Actor == "" || entry.Action == "" {
		return ErrInvalidEntry
	}
	if entry.At.IsZero() {
		entry.At = s.now().UTC()
	}
	return s.repo.Insert(ctx, entry)
}

// Timeline returns one page of entries, newest first.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}

	rows, err := s.repo.Window(ctx, WindowParams{
		From:   filters.From,
		To:     filters.To,
		Actor:  strings.TrimSpace(filters.Actor),
		Action: strings.TrimSpace(filters.Action),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize + 1,
	})
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	if rows == nil {
		rows = []Entry{}
	}

	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: rows, Paging: paging}, nil
}
