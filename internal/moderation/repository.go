package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillpress/dashboard/internal/shared"
)

// Repository defines persistence operations for comment moderation.
type Repository interface {
	List(ctx context.Context, filter CommentFilter) ([]Comment, error)
	Update(ctx context.Context, id int64, patch CommentPatch) (*Comment, error)
	Counts(ctx context.Context) (Counts, error)
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const selectComments = `
SELECT c.id, c.content, c.is_approved, c.is_deleted, c.is_reported, c.created_at, c.updated_at,
       u.id, COALESCE(u.name, ''), u.image, u.email,
       p.id, p.title, p.slug
FROM comments c
JOIN users u ON u.id = c.author_id
JOIN posts p ON p.id = c.post_id`

// buildListQuery renders the listing query for filter, newest first.
func buildListQuery(filter CommentFilter) (string, []any) {
	var conditions []string
	var args []any
	add := func(column string, v *bool) {
		if v == nil {
			return
		}
		args = append(args, *v)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("c.is_approved", filter.IsApproved)
	add("c.is_deleted", filter.IsDeleted)
	add("c.is_reported", filter.IsReported)

	var sb strings.Builder
	sb.WriteString(selectComments)
	if len(conditions) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString("\nORDER BY c.created_at DESC, c.id DESC")
	return sb.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (Comment, error) {
	var c Comment
	err := row.Scan(
		&c.ID, &c.Content, &c.IsApproved, &c.IsDeleted, &c.IsReported, &c.CreatedAt, &c.UpdatedAt,
		&c.Author.ID, &c.Author.Name, &c.Author.Image, &c.Author.Email,
		&c.Post.ID, &c.Post.Title, &c.Post.Slug,
	)
	return c, err
}

// List returns the comments matching filter, newest first.
func (r *PGRepository) List(ctx context.Context, filter CommentFilter) ([]Comment, error) {
	query, args := buildListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("moderation: list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("moderation: scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("moderation: iterate comments: %w", err)
	}
	return comments, nil
}

const updateComment = `
UPDATE comments
SET is_approved = COALESCE($2, is_approved),
    is_deleted  = COALESCE($3, is_deleted),
    is_reported = COALESCE($4, is_reported),
    updated_at  = now()
WHERE id = $1`

// Update applies patch to a comment and returns the stored result.
func (r *PGRepository) Update(ctx context.Context, id int64, patch CommentPatch) (*Comment, error) {
	tag, err := r.pool.Exec(ctx, updateComment, id, patch.IsApproved, patch.IsDeleted, patch.IsReported)
	if err != nil {
		return nil, fmt.Errorf("moderation: update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	c, err := scanComment(r.pool.QueryRow(ctx, selectComments+"\nWHERE c.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("moderation: reload comment: %w", err)
	}
	return &c, nil
}

const countComments = `
SELECT count(*) FILTER (WHERE NOT is_approved AND NOT is_deleted AND NOT is_reported),
       count(*) FILTER (WHERE is_reported AND NOT is_deleted),
       count(*) FILTER (WHERE is_deleted),
       count(*)
FROM comments`

// Counts summarises the moderation queue.
func (r *PGRepository) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	if err := r.pool.QueryRow(ctx, countComments).Scan(&c.Pending, &c.Reported, &c.Deleted, &c.Total); err != nil {
		return Counts{}, fmt.Errorf("moderation: count comments: %w", err)
	}
	return c, nil
}

// PurgeDeleted hard-deletes comments soft-deleted before the cutoff.
func (r *PGRepository) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE is_deleted AND updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("moderation: purge comments: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
