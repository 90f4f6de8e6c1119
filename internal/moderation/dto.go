package moderation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidStatus is returned for a status filter outside the known set.
	ErrInvalidStatus = errors.New("invalid status filter")
	// ErrInvalidAction is returned for an unknown moderation action.
	ErrInvalidAction = errors.New("invalid moderation action")
)

var validate = validator.New()

type listQuery struct {
	Status string `validate:"omitempty,oneof=approved pending reported deleted"`
}

type actionParam struct {
	Action string `validate:"required,oneof=approve report delete restore"`
}

// ParseStatus validates the raw status query value. An empty value lists
// every comment.
func ParseStatus(raw string) (Status, error) {
	q := listQuery{Status: strings.ToLower(strings.TrimSpace(raw))}
	if err := validate.Struct(q); err != nil {
		return StatusAll, ErrInvalidStatus
	}
	return Status(q.Status), nil
}

// ParseAction validates a moderation action path segment.
func ParseAction(raw string) (Action, error) {
	p := actionParam{Action: strings.ToLower(raw)}
	if err := validate.Struct(p); err != nil {
		return "", ErrInvalidAction
	}
	return Action(p.Action), nil
}

// CommentFilter constrains the three moderation flags. A nil field leaves
// the flag unconstrained; set fields are combined with AND.
type CommentFilter struct {
	IsApproved *bool
	IsDeleted  *bool
	IsReported *bool
}

// CommentPatch sets the non-nil flags on a comment.
type CommentPatch struct {
	IsApproved *bool
	IsDeleted  *bool
	IsReported *bool
}

func flag(v bool) *bool { return &v }

// FilterFor maps a status to its flag filter. The deleted filter only
// constrains isDeleted; approval and report flags are left open.
func FilterFor(s Status) CommentFilter {
	switch s {
	case StatusApproved:
		return CommentFilter{IsApproved: flag(true), IsDeleted: flag(false), IsReported: flag(false)}
	case StatusPending:
		return CommentFilter{IsApproved: flag(false), IsDeleted: flag(false), IsReported: flag(false)}
	case StatusReported:
		return CommentFilter{IsDeleted: flag(false), IsReported: flag(true)}
	case StatusDeleted:
		return CommentFilter{IsDeleted: flag(true)}
	default:
		return CommentFilter{}
	}
}

// PatchFor maps an action to the flags it sets.
func PatchFor(a Action) (CommentPatch, error) {
	switch a {
	case ActionApprove:
		return CommentPatch{IsApproved: flag(true), IsReported: flag(false)}, nil
	case ActionReport:
		return CommentPatch{IsReported: flag(true)}, nil
	case ActionDelete:
		return CommentPatch{IsDeleted: flag(true)}, nil
	case ActionRestore:
		return CommentPatch{IsDeleted: flag(false)}, nil
	default:
		return CommentPatch{}, ErrInvalidAction
	}
}

// Matches reports whether c satisfies the filter.
func (f CommentFilter) Matches(c Comment) bool {
	if f.IsApproved != nil && *f.IsApproved != c.IsApproved {
		return false
	}
	if f.IsDeleted != nil && *f.IsDeleted != c.IsDeleted {
		return false
	}
	if f.IsReported != nil && *f.IsReported != c.IsReported {
		return false
	}
	return true
}
