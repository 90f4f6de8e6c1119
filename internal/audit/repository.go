package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository stores entries in the moderation_audit table.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert appends one entry.
func (r *PGRepository) Insert(ctx context.Context, entry Entry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO moderation_audit (at, actor, action, entity, entity_id) VALUES ($1, $2, $3, $4, $5)`,
		entry.At, entry.Actor, entry.Action, entry.Entity, entry.EntityID)
	if err != nil {
		return fmt.Errorf("audit: insert entry: %w", err)
	}
	return nil
}

const selectWindow = `
SELECT at, actor, action, entity, entity_id
FROM moderation_audit
WHERE ($1::timestamptz IS NULL OR at >= $1)
  AND ($2::timestamptz IS NULL OR at <= $2)
  AND ($3::text IS NULL OR actor = $3)
  AND ($4::text IS NULL OR action = $4)
ORDER BY at DESC, id DESC
OFFSET $5 LIMIT $6`

// Window returns entries matching params, newest first.
func (r *PGRepository) Window(ctx context.Context, params WindowParams) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, selectWindow,
		toPgTime(params.From), toPgTime(params.To),
		optionalText(params.Actor), optionalText(params.Action),
		params.Offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query timeline: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.At, &e.Actor, &e.Action, &e.Entity, &e.EntityID); err != nil {
			return nil, fmt.Errorf("audit: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate entries: %w", err)
	}
	return entries, nil
}

func toPgTime(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalText(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}

var _ Repository = (*PGRepository)(nil)
