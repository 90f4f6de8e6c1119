// Package rbac holds the dashboard authorization policy: roles, principals,
// resource classification and the pure Decide function shared by every gate.
package rbac

import "strings"

// Role is the closed set of account roles.
type Role string

const (
	// RoleAdmin administers the whole dashboard.
	RoleAdmin Role = "ADMIN"
	// RoleEditor manages content and moderates comments.
	RoleEditor Role = "EDITOR"
	// RoleUser is a regular reader account.
	RoleUser Role = "USER"
)

// ParseRole normalises a stored or transported role string. Unknown values are
// kept as-is so they stay visible in logs; they are never operators.
func ParseRole(raw string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsOperatorRole reports whether the role may access the dashboard.
func IsOperatorRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleEditor:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
