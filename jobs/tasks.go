package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCommentsPurge permanently removes comments deleted long ago.
	TaskCommentsPurge = "comments:purge"
)

// CommentsPurgePayload optionally overrides the configured retention.
type CommentsPurgePayload struct {
	RetentionHours int `json:"retention_hours,omitempty"`
}

// NewCommentsPurgeTask constructs an Asynq task.
func NewCommentsPurgeTask(payload CommentsPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommentsPurge, data), nil
}
