// Package deadline converts the extraction service's free-text date/time
// field into an absolute deadline. It is a pure computation: the only
// environmental input is the system's local time zone.
package deadline

import (
	"strings"
	"time"

	"github.com/nhle/voicetask/internal/model"
)

// maxTitleLen caps a transcript-derived fallback title.
const maxTitleLen = 50

// AdvisoryLeadMinutes is the lead time recorded on ParsedDeadline.
// The scheduler applies its own configured lead; this value travels with
// the parse result for callers that want a suggestion.
const AdvisoryLeadMinutes = 30

// strategy attempts to decode a single date/time format. The current-date
// reference anchors time-only values; strategies that carry their own date
// ignore it.
type strategy func(value string, currentDate time.Time) (time.Time, bool)

// strategies is the ordered fallback chain. First success wins.
var strategies = []strategy{
	parseOffsetTimestamp,
	parseLocalDateTime,
	parseBareDate,
	parseTimeOfDay,
}

// Parse produces a deadline from an extraction result. The second return
// value is false when the date/time field is blank or matches no known
// format; the record is then a plain voice note, not an event.
func Parse(ext model.ExtractionResult, transcript, currentDate string) (*model.ParsedDeadline, bool) {
	value := strings.TrimSpace(ext.DateTime)
	if value == "" {
		return nil, false
	}

	anchor := anchorDate(currentDate)

	var start time.Time
	matched := false
	for _, try := range strategies {
		if t, ok := try(value, anchor); ok {
			start = t
			matched = true
			break
		}
	}
	if !matched {
		return nil, false
	}

	end := start.Add(model.EventDuration)
	return &model.ParsedDeadline{
		Title:           deriveTitle(ext.Title, transcript),
		Description:     deriveDescription(ext.Description, transcript),
		StartMillis:     start.UnixMilli(),
		EndMillis:       end.UnixMilli(),
		Timezone:        time.Now().Location().String(),
		ReminderMinutes: AdvisoryLeadMinutes,
	}, true
}

// anchorDate resolves the "current date" reference string. An unparsable
// reference falls back to today so time-only inputs still land somewhere
// sane.
func anchorDate(currentDate string) time.Time {
	if t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(currentDate), time.Local); err == nil {
		return t
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

// parseOffsetTimestamp decodes a fully-qualified offset-aware timestamp.
func parseOffsetTimestamp(value string, _ time.Time) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseLocalDateTime decodes a date-time with no offset, interpreted in
// the system's local time zone.
func parseLocalDateTime(value string, _ time.Time) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseBareDate decodes a bare calendar date, interpreted as 09:00 local
// time on that date.
func parseBareDate(value string, _ time.Time) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 9, 0, 0, 0, time.Local), true
}

// timeOnlyLayouts covers H:mm, HH:mm, h:mm a, and h a. Values are
// uppercased before matching so "2:30 pm" and "2:30 PM" both hit the
// "3:04 PM" layout.
var timeOnlyLayouts = []string{"15:04", "3:04 PM", "3 PM"}

// parseTimeOfDay decodes a time-of-day value and anchors it to the
// current-date reference.
func parseTimeOfDay(value string, currentDate time.Time) (time.Time, bool) {
	upper := strings.ToUpper(value)
	for _, layout := range timeOnlyLayouts {
		t, err := time.Parse(layout, upper)
		if err != nil {
			continue
		}
		anchored := time.Date(
			currentDate.Year(), currentDate.Month(), currentDate.Day(),
			t.Hour(), t.Minute(), 0, 0, time.Local,
		)
		return anchored, true
	}
	return time.Time{}, false
}

// deriveTitle prefers the extracted title and falls back to a truncated
// transcript.
func deriveTitle(title, transcript string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return FallbackTitle(transcript)
}

// deriveDescription prefers the extracted description and falls back to
// the full transcript.
func deriveDescription(description, transcript string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return transcript
}

// FallbackTitle truncates a transcript into a display title: at most 50
// runes, 47 plus an ellipsis marker when longer.
func FallbackTitle(transcript string) string {
	runes := []rune(strings.TrimSpace(transcript))
	if len(runes) <= maxTitleLen {
		return string(runes)
	}
	return string(runes[:maxTitleLen-3]) + "..."
}
