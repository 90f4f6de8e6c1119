package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillpress/dashboard/internal/platform/db"
	"github.com/quillpress/dashboard/internal/shared"
)

// Repository defines persistence operations for posts.
type Repository interface {
	List(ctx context.Context, req ListPostsRequest) ([]Post, error)
	Create(ctx context.Context, post Post) (*Post, error)
	SetPublished(ctx context.Context, id int64, published bool) (*Post, error)
	Count(ctx context.Context) (int64, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const postColumns = `id, title, slug, content, published, author_id, created_at, updated_at`

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List returns posts newest first.
func (r *PGRepository) List(ctx context.Context, req ListPostsRequest) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []any
	if req.Published != nil {
		query += ` WHERE published = $1`
		args = append(args, *req.Published)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("content: list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("content: scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Create inserts a post. A slug collision yields shared.ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, post Post) (*Post, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO posts (title, slug, content, published, author_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+postColumns,
		post.Title, post.Slug, post.Content, post.Published, post.AuthorID)
	created, err := scanPost(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, fmt.Errorf("content: create post: %w", err)
	}
	return &created, nil
}

// SetPublished toggles the published flag.
func (r *PGRepository) SetPublished(ctx context.Context, id int64, published bool) (*Post, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE posts SET published = $2, updated_at = now()
WHERE id = $1
RETURNING `+postColumns, id, published)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("content: set published: %w", err)
	}
	return &p, nil
}

// Count returns the number of posts.
func (r *PGRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("content: count posts: %w", err)
	}
	return n, nil
}

var _ Repository = (*PGRepository)(nil)
