package auth

import (
	"strconv"
	"time"

	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
)

// User represents an account that can sign in.
type User struct {
	ID           int64
	Email        string
	Name         string
	Image        string
	Role         rbac.Role
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity converts the user into the value stored in sessions and tokens.
func (u User) Identity() shared.Identity {
	return shared.Identity{
		UserID: strconv.FormatInt(u.ID, 10),
		Role:   u.Role.String(),
		Name:   u.Name,
		Email:  u.Email,
	}
}
