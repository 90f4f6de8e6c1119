package moderation

import "time"

// Author summarises the account that wrote a comment.
type Author struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
	Email string  `json:"email"`
}

// PostSummary identifies the post a comment belongs to.
type PostSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Comment is a reader comment as seen by moderators.
type Comment struct {
	ID         int64       `json:"id"`
	Content    string      `json:"content"`
	IsApproved bool        `json:"isApproved"`
	IsDeleted  bool        `json:"isDeleted"`
	IsReported bool        `json:"isReported"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	Author     Author      `json:"author"`
	Post       PostSummary `json:"post"`
}

// Status is the moderation state a listing can be filtered by.
type Status string

const (
	StatusAll      Status = ""
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusReported Status = "reported"
	StatusDeleted  Status = "deleted"
)

// Action is a moderation transition applied to a single comment.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReport  Action = "report"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
)

// Counts summarises the moderation queue.
type Counts struct {
	Pending  int64
	Reported int64
	Deleted  int64
	Total    int64
}
