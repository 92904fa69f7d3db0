package remind

import (
	"encoding/json"
	"fmt"
	"time"
)

// TypeDeliver is the job type handled by the delivery worker.
const TypeDeliver = "reminder:deliver"

// JobKey derives the deterministic job ID for a record's reminder.
// Record IDs are unique, so keys cannot collide; the queue's one-task-
// per-ID rule then gives at most one live reminder per record.
func JobKey(taskID int64) string {
	return fmt.Sprintf("reminder:%d", taskID)
}

// Payload is the job input for a reminder delivery.
type Payload struct {
	TaskID  int64  `json:"task_id"`
	Title   string `json:"title"`
	DueAtMS int64  `json:"due_at_ms"`
}

// DueAt returns the deadline instant carried by the payload.
func (p Payload) DueAt() time.Time { return time.UnixMilli(p.DueAtMS) }

// Marshal encodes the payload for enqueueing.
func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalPayload decodes and validates a job payload. A negative task
// id means the payload was corrupted somewhere between enqueue and fire.
func UnmarshalPayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("decoding reminder payload: %w", err)
	}
	if p.TaskID < 0 {
		return Payload{}, fmt.Errorf("invalid task id %d in reminder payload", p.TaskID)
	}
	return p, nil
}
