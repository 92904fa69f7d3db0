package model

import "time"

// NotificationHistory is the durable record of a delivered reminder.
// History is written by the delivery worker regardless of whether an
// OS-level alert could actually be shown.
type NotificationHistory struct {
	// ID is the unique identifier for this history entry.
	ID string `json:"id" db:"id"`

	// TaskID links this entry back to the originating voice record.
	// A back-reference, not ownership: deleting history never touches
	// the record, and vice versa.
	TaskID int64 `json:"task_id" db:"task_id"`

	// Title is the reminder title as delivered.
	Title string `json:"title" db:"title"`

	// Body is the reminder body text as delivered.
	Body string `json:"body" db:"body"`

	// DueAt is the deadline the reminder was for.
	DueAt time.Time `json:"due_at" db:"due_at"`

	// Read indicates whether the user has acknowledged this entry.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when the reminder fired.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
