package model

import "time"

// EventDuration is the fixed length of a captured calendar event.
// End instants are always derived as start + EventDuration.
const EventDuration = 30 * time.Minute

// ParsedDeadline is the transient result of deadline extraction. It is
// consumed immediately by the calendar-event creator and the reminder
// scheduler and is never persisted on its own.
type ParsedDeadline struct {
	Title       string
	Description string

	// StartMillis is the deadline instant in epoch milliseconds.
	StartMillis int64

	// EndMillis is always StartMillis + EventDuration.
	EndMillis int64

	// Timezone is the system local zone name at parse time.
	Timezone string

	// ReminderMinutes is the lead time suggested by extraction.
	// Advisory only: the scheduler applies its own configured lead.
	ReminderMinutes int
}

// Start returns the deadline as a time.Time.
func (d ParsedDeadline) Start() time.Time { return time.UnixMilli(d.StartMillis) }

// End returns the event end as a time.Time.
func (d ParsedDeadline) End() time.Time { return time.UnixMilli(d.EndMillis) }

// ExtractionResult is the structured output of the extraction service
// for a single transcript. DateTime is free text: it may be a full
// timestamp, a bare date, a time of day, or empty when the utterance
// carries no deadline.
type ExtractionResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DateTime    string `json:"datetime"`
	Priority    int    `json:"priority"`
}
