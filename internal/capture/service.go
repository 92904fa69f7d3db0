// Package capture orchestrates the voice-to-task pipeline: a transcript
// goes through extraction and deadline parsing, becomes a durable record,
// and — when it carries a deadline — a calendar event and a scheduled
// reminder.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/voicetask/internal/calendar"
	"github.com/nhle/voicetask/internal/deadline"
	"github.com/nhle/voicetask/internal/logging"
	"github.com/nhle/voicetask/internal/model"
	"github.com/nhle/voicetask/internal/remind"
	"github.com/nhle/voicetask/internal/store"
)

// Display layouts for the record's human-readable time strings.
const (
	displayTimeLayout = "15:04"
	fullTimeLayout    = "Mon, Jan 2 2006 15:04"
)

// Extractor is the extraction-service boundary. Implemented by
// extract.Client in production and by fakes in tests.
type Extractor interface {
	Extract(ctx context.Context, transcript, currentDate string) (model.ExtractionResult, error)
}

// Service wires the pipeline stages together. Extraction failures are
// the only errors it surfaces; everything below the capture boundary is
// logged and absorbed.
type Service struct {
	store     store.Store
	extractor Extractor
	calendar  calendar.Creator
	sched     *remind.Scheduler
	log       *logging.Logger
	now       func() time.Time
}

// New creates a capture service.
func New(
	s store.Store,
	extractor Extractor,
	cal calendar.Creator,
	sched *remind.Scheduler,
	log *logging.Logger,
) *Service {
	return &Service{
		store:     s,
		extractor: extractor,
		calendar:  cal,
		sched:     sched,
		log:       log,
		now:       time.Now,
	}
}

// Capture turns a transcript into a stored record. When extraction and
// parsing yield a deadline the record is EVENT-tagged, a calendar event
// is created best-effort, and a reminder is scheduled. Otherwise the
// transcript is stored as a plain voice note.
func (s *Service) Capture(ctx context.Context, transcript string) (*model.VoiceRecord, error) {
	now := s.now()
	currentDate := now.Format("2006-01-02")

	ext, err := s.extractor.Extract(ctx, transcript, currentDate)
	if err != nil {
		// Recoverable: the caller reports a transient error and the
		// user retries capture. Nothing is persisted.
		return nil, fmt.Errorf("extracting task from transcript: %w", err)
	}

	parsed, isEvent := deadline.Parse(ext, transcript, currentDate)

	rec := model.VoiceRecord{Transcript: transcript}
	if isEvent {
		start := parsed.Start()
		rec.Duration = model.DurationEvent
		rec.CreatedAt = parsed.StartMillis
		rec.DisplayTime = start.In(time.Local).Format(displayTimeLayout)
		rec.FullTime = start.In(time.Local).Format(fullTimeLayout)
	} else {
		rec.Duration = model.DurationNote
		rec.CreatedAt = now.UnixMilli()
		rec.DisplayTime = now.Format(displayTimeLayout)
		rec.FullTime = now.Format(fullTimeLayout)
	}

	id, err := s.store.CreateRecord(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("saving record: %w", err)
	}
	rec.ID = id

	if isEvent {
		if err := s.calendar.CreateEvent(ctx, calendar.FromDeadline(*parsed)); err != nil {
			s.log.Warn("creating calendar event failed", "task_id", id, "error", err)
		}
		s.sched.ScheduleReminder(ctx, rec)
	}

	s.log.Info("captured record",
		"task_id", id, "duration", rec.Duration, "transcript_len", len(transcript))
	return &rec, nil
}

// SetCompleted updates a record's completed flag and reconciles its
// reminder: completing cancels, reopening reschedules if still eligible.
func (s *Service) SetCompleted(ctx context.Context, id int64, completed bool) error {
	if err := s.store.SetRecordCompleted(ctx, id, completed); err != nil {
		return err
	}
	rec, err := s.store.GetRecordByID(ctx, id)
	if err != nil {
		return err
	}
	s.sched.ScheduleReminder(ctx, *rec)
	return nil
}

// Delete removes a record and cancels any scheduled reminder for it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return err
	}
	s.sched.CancelReminder(ctx, id)
	return nil
}

// SyncReminders reconciles the job queue against every stored record.
// Run on startup and after bulk changes; idempotent.
func (s *Service) SyncReminders(ctx context.Context) error {
	records, err := s.store.GetRecords(ctx, store.RecordFilter{})
	if err != nil {
		return fmt.Errorf("listing records for sync: %w", err)
	}
	s.sched.SyncReminders(ctx, records)
	return nil
}
