package deadline

import (
	"strings"
	"testing"
	"time"

	"github.com/nhle/voicetask/internal/model"
)

func mustParse(t *testing.T, datetime, transcript, currentDate string) *model.ParsedDeadline {
	t.Helper()
	d, ok := Parse(model.ExtractionResult{DateTime: datetime}, transcript, currentDate)
	if !ok {
		t.Fatalf("Parse(%q) found no deadline", datetime)
	}
	return d
}

func TestParse_OffsetTimestamp(t *testing.T) {
	d := mustParse(t, "2024-06-01T10:00:00+02:00", "call the bank", "2024-06-01")

	want := time.Date(2024, 6, 1, 10, 0, 0, 0, time.FixedZone("", 2*3600))
	if d.StartMillis != want.UnixMilli() {
		t.Errorf("start = %d, want %d", d.StartMillis, want.UnixMilli())
	}
	if d.EndMillis-d.StartMillis != 30*60*1000 {
		t.Errorf("end - start = %d ms, want 1800000", d.EndMillis-d.StartMillis)
	}
}

func TestParse_LocalDateTime(t *testing.T) {
	d := mustParse(t, "2024-06-01T14:30", "dentist", "2024-06-01")

	want := time.Date(2024, 6, 1, 14, 30, 0, 0, time.Local)
	if d.StartMillis != want.UnixMilli() {
		t.Errorf("start = %d, want %d", d.StartMillis, want.UnixMilli())
	}
}

func TestParse_BareDate(t *testing.T) {
	d := mustParse(t, "2024-06-01", "submit report", "2024-05-20")

	want := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	if d.StartMillis != want.UnixMilli() {
		t.Errorf("start = %d, want %d (09:00 local)", d.StartMillis, want.UnixMilli())
	}
}

func TestParse_TimeOfDay(t *testing.T) {
	tests := []struct {
		value      string
		wantHour   int
		wantMinute int
	}{
		{"2:30 pm", 14, 30},
		{"2:30 PM", 14, 30},
		{"17:00", 17, 0},
		{"9:15", 9, 15},
		{"5 pm", 17, 0},
	}
	for _, tt := range tests {
		d := mustParse(t, tt.value, "pay bill", "2024-06-01")

		want := time.Date(2024, 6, 1, tt.wantHour, tt.wantMinute, 0, 0, time.Local)
		if d.StartMillis != want.UnixMilli() {
			t.Errorf("Parse(%q) start = %d, want %d", tt.value, d.StartMillis, want.UnixMilli())
		}
	}
}

func TestParse_NoDeadline(t *testing.T) {
	for _, value := range []string{"", "   ", "whenever", "june-ish", "1234567"} {
		if _, ok := Parse(model.ExtractionResult{DateTime: value}, "note to self", "2024-06-01"); ok {
			t.Errorf("Parse(%q) = deadline, want none", value)
		}
	}
}

func TestParse_BadCurrentDateAnchorsToToday(t *testing.T) {
	d := mustParse(t, "17:00", "pay bill", "not-a-date")

	now := time.Now()
	want := time.Date(now.Year(), now.Month(), now.Day(), 17, 0, 0, 0, time.Local)
	if d.StartMillis != want.UnixMilli() {
		t.Errorf("start = %d, want %d", d.StartMillis, want.UnixMilli())
	}
}

func TestParse_TitleAndDescriptionFallbacks(t *testing.T) {
	ext := model.ExtractionResult{DateTime: "17:00", Title: "Pay electricity bill", Description: "monthly bill"}
	d, ok := Parse(ext, "pay the electricity bill tomorrow", "2024-06-01")
	if !ok {
		t.Fatal("expected deadline")
	}
	if d.Title != "Pay electricity bill" {
		t.Errorf("title = %q", d.Title)
	}
	if d.Description != "monthly bill" {
		t.Errorf("description = %q", d.Description)
	}

	long := strings.Repeat("remember to water the plants ", 4) // > 50 chars
	d, ok = Parse(model.ExtractionResult{DateTime: "17:00"}, long, "2024-06-01")
	if !ok {
		t.Fatal("expected deadline")
	}
	if len([]rune(d.Title)) != 50 || !strings.HasSuffix(d.Title, "...") {
		t.Errorf("fallback title = %q (len %d), want 47 chars + ellipsis", d.Title, len(d.Title))
	}
	if d.Description != long {
		t.Errorf("description should fall back to the transcript")
	}
}

func TestParse_RecordsLocalZoneAndAdvisoryLead(t *testing.T) {
	d := mustParse(t, "2024-06-01T14:30", "x", "2024-06-01")

	if d.Timezone != time.Now().Location().String() {
		t.Errorf("timezone = %q, want local zone %q", d.Timezone, time.Now().Location().String())
	}
	if d.ReminderMinutes != AdvisoryLeadMinutes {
		t.Errorf("reminder minutes = %d, want %d", d.ReminderMinutes, AdvisoryLeadMinutes)
	}
}

func TestFallbackTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"short", "short"},
		{"", ""},
		{strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{strings.Repeat("a", 51), strings.Repeat("a", 47) + "..."},
	}
	for _, tt := range tests {
		if got := FallbackTitle(tt.input); got != tt.want {
			t.Errorf("FallbackTitle(%d chars) = %q, want %q", len(tt.input), got, tt.want)
		}
	}
}
