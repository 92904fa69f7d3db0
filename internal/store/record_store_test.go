package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/voicetask/internal/model"
	"github.com/nhle/voicetask/internal/store"
	"github.com/nhle/voicetask/tests/testutil"
)

func TestCreateRecord_AssignsMonotonicIDs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 3; i++ {
		id, err := s.CreateRecord(ctx, model.VoiceRecord{
			Transcript: "buy milk",
			Duration:   model.DurationNote,
			CreatedAt:  time.Now().UnixMilli(),
		})
		if err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestCreateRecord_RejectsEmptyTranscript(t *testing.T) {
	s := testutil.NewTestStore(t)

	if _, err := s.CreateRecord(context.Background(), model.VoiceRecord{Transcript: "   "}); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestGetRecordByID_RoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	due := time.Date(2030, 6, 1, 17, 0, 0, 0, time.UTC).UnixMilli()
	id, err := s.CreateRecord(ctx, model.VoiceRecord{
		Transcript:  "pay electricity bill",
		DisplayTime: "17:00",
		FullTime:    "Sat, Jun 1 2030 17:00",
		Duration:    model.DurationEvent,
		Progress:    0.25,
		CreatedAt:   due,
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	rec, err := s.GetRecordByID(ctx, id)
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if rec.Transcript != "pay electricity bill" || rec.Duration != model.DurationEvent {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.CreatedAt != due {
		t.Errorf("created_at = %d, want %d", rec.CreatedAt, due)
	}
	if rec.Progress != 0.25 {
		t.Errorf("progress = %f, want 0.25", rec.Progress)
	}
}

func TestGetRecords_Filters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	mustCreate := func(transcript, duration string, completed bool, at int64) {
		t.Helper()
		_, err := s.CreateRecord(ctx, model.VoiceRecord{
			Transcript: transcript, Duration: duration, Completed: completed, CreatedAt: at,
		})
		if err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
	}

	mustCreate("note one", model.DurationNote, false, 1000)
	mustCreate("event one", model.DurationEvent, false, 2000)
	mustCreate("event two done", model.DurationEvent, true, 3000)

	event := model.DurationEvent
	events, err := s.GetRecords(ctx, store.RecordFilter{Duration: &event})
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	open := false
	openEvents, err := s.GetRecords(ctx, store.RecordFilter{Duration: &event, Completed: &open})
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(openEvents) != 1 || openEvents[0].Transcript != "event one" {
		t.Fatalf("unexpected open events: %+v", openEvents)
	}

	q := "done"
	matched, err := s.GetRecords(ctx, store.RecordFilter{Query: &q})
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(matched) != 1 {
		t.Fatalf("got %d query matches, want 1", len(matched))
	}

	desc, err := s.GetRecords(ctx, store.RecordFilter{SortDesc: true})
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(desc) != 3 || desc[0].CreatedAt != 3000 {
		t.Fatalf("descending sort broken: %+v", desc)
	}
}

func TestSetRecordCompleted(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.CreateRecord(ctx, model.VoiceRecord{
		Transcript: "x", Duration: model.DurationEvent, CreatedAt: 1,
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	if err := s.SetRecordCompleted(ctx, id, true); err != nil {
		t.Fatalf("SetRecordCompleted: %v", err)
	}
	rec, err := s.GetRecordByID(ctx, id)
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if !rec.Completed {
		t.Error("record not marked completed")
	}

	if err := s.SetRecordCompleted(ctx, 9999, true); err == nil {
		t.Error("expected error for missing record")
	}
}

func TestSetRecordProgress(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.CreateRecord(ctx, model.VoiceRecord{Transcript: "x", CreatedAt: 1})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	if err := s.SetRecordProgress(ctx, id, 0.5); err != nil {
		t.Fatalf("SetRecordProgress: %v", err)
	}
	if err := s.SetRecordProgress(ctx, id, 1.5); err == nil {
		t.Error("expected error for out-of-range progress")
	}
}

func TestDeleteRecord(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.CreateRecord(ctx, model.VoiceRecord{Transcript: "x", CreatedAt: 1})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	if err := s.DeleteRecord(ctx, id); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if _, err := s.GetRecordByID(ctx, id); err == nil {
		t.Error("expected error getting deleted record")
	}
	if err := s.DeleteRecord(ctx, id); err == nil {
		t.Error("expected error deleting twice")
	}
}
