package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const findUserByEmail = `
SELECT id, email, COALESCE(name, ''), COALESCE(image, ''), role, password_hash, is_active, created_at, updated_at
FROM users
WHERE lower(email) = lower($1)`

// FindByEmail fetches a user by email, case-insensitively.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var (
		u    User
		role string
	)
	err := r.pool.QueryRow(ctx, findUserByEmail, strings.TrimSpace(email)).Scan(
		&u.ID, &u.Email, &u.Name, &u.Image, &role, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	u.Role = rbac.ParseRole(role)
	return &u, nil
}

var _ Repository = (*PGRepository)(nil)
