package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	inserted []Entry
	rows     []Entry
	last     WindowParams
	err      error
}

func (s *stubRepo) Insert(_ context.Context, entry Entry) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, entry)
	return nil
}

func (s *stubRepo) Window(_ context.Context, params WindowParams) ([]Entry, error) {
	s.last = params
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func entries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{Actor: "1", Action: "approve", Entity: "comment", EntityID: "9"}
	}
	return out
}

func TestServiceTimelinePaging(t *testing.T) {
	repo := &stubRepo{rows: entries(3)}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{Page: 1, PageSize: 2, Actor: " 1 "})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, PagingInfo{Page: 1, PageSize: 2, HasNext: true, NextPage: 2}, result.Paging)
	assert.Equal(t, WindowParams{Actor: "1", Offset: 0, Limit: 3}, repo.last)

	repo.rows = entries(1)
	result, err = svc.Timeline(context.Background(), TimelineFilters{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, PagingInfo{Page: 3, PageSize: 2, PrevPage: 2}, result.Paging)
	assert.Equal(t, 4, repo.last.Offset)
}

func TestServiceTimelineClampsPageSize(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{})
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize+1, repo.last.Limit)
	assert.NotNil(t, result.Rows)

	_, err = svc.Timeline(context.Background(), TimelineFilters{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize+1, repo.last.Limit)
}

func TestServiceRecordStampsTime(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	require.NoError(t, svc.Record(context.Background(), Entry{Actor: "1", Action: "delete", Entity: "comment", EntityID: "4"}))
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, fixed, repo.inserted[0].At)

	assert.ErrorIs(t, svc.Record(context.Background(), Entry{Action: "delete"}), ErrInvalidEntry)
	assert.Len(t, repo.inserted, 1)

	boom := errors.New("boom")
	repo.err = boom
	assert.ErrorIs(t, svc.Record(context.Background(), Entry{Actor: "1", Action: "delete"}), boom)
}

func TestServiceWithoutRepository(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Timeline(context.Background(), TimelineFilters{})
	assert.Error(t, err)
	assert.Error(t, svc.Record(context.Background(), Entry{Actor: "1", Action: "approve"}))
}
