package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeExpirePending = "booking:expire-pending"

// ExpirePendingPayload is the payload of TypeExpirePending tasks.
type ExpirePendingPayload struct {
	OlderThanSeconds int64 `json:"olderThanSeconds"`
}

// OlderThan returns the payload age threshold as a duration.
func (p ExpirePendingPayload) OlderThan() time.Duration {
	return time.Duration(p.OlderThanSeconds) * time.Second
}

// NewExpirePendingTask builds the sweep task. Unique keeps a slow sweep from
// overlapping the next scheduled one.
func NewExpirePendingTask(olderThan time.Duration) (*asynq.Task, []asynq.Option, error) {
	if olderThan <= 0 {
		return nil, nil, fmt.Errorf("invalid pending booking ttl %s", olderThan)
	}
	b, err := json.Marshal(ExpirePendingPayload{OlderThanSeconds: int64(olderThan / time.Second)})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeExpirePending, b)
	opts := []asynq.Option{asynq.MaxRetry(1), asynq.Unique(time.Minute), asynq.Timeout(2 * time.Minute)}

	return task, opts, nil
}

// ParseExpirePending decodes a TypeExpirePending payload.
func ParseExpirePending(t *asynq.Task) (ExpirePendingPayload, error) {
	var p ExpirePendingPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", TypeExpirePending, err)
	}
	if p.OlderThanSeconds <= 0 {
		return p, fmt.Errorf("invalid %s payload: olderThanSeconds must be positive", TypeExpirePending)
	}
	return p, nil
}
