package model

import "time"

// Duration tag values. A record tagged EVENT carries a deadline in
// CreatedAt; any other value marks a plain voice note.
const (
	DurationEvent = "EVENT"
	DurationNote  = "NOTE"
)

// VoiceRecord is a captured utterance turned into a task-like record.
type VoiceRecord struct {
	// ID is the durable, unique, monotonically assigned identifier.
	ID int64 `json:"id" db:"id"`

	// Transcript is the raw text produced by speech capture.
	Transcript string `json:"transcript" db:"transcript"`

	// DisplayTime is the short human-readable time string shown in lists.
	DisplayTime string `json:"display_time" db:"display_time"`

	// FullTime is the full human-readable date/time string.
	FullTime string `json:"full_time" db:"full_time"`

	// Duration is the category tag (use Duration* constants).
	Duration string `json:"duration" db:"duration"`

	// Progress is the completion fraction in [0, 1].
	Progress float64 `json:"progress" db:"progress"`

	// Completed indicates whether the user marked this record done.
	Completed bool `json:"completed" db:"completed"`

	// CreatedAt is epoch milliseconds. For EVENT records this is the
	// deadline instant, not the wall-clock insertion time.
	CreatedAt int64 `json:"created_at" db:"created_at"`
}

// IsEvent reports whether this record is deadline-bearing.
func (r VoiceRecord) IsEvent() bool { return r.Duration == DurationEvent }

// DueAt returns the deadline instant carried in CreatedAt.
func (r VoiceRecord) DueAt() time.Time { return time.UnixMilli(r.CreatedAt) }

// ReminderEligible reports whether the record qualifies for a scheduled
// reminder: EVENT-tagged, not completed, and due strictly after now.
// Mute state is checked separately, against the durable mute set.
func (r VoiceRecord) ReminderEligible(now time.Time) bool {
	return r.IsEvent() && !r.Completed && r.DueAt().After(now)
}
