// Package remind owns the reminder pipeline: scheduling durable delayed
// jobs for eligible records, delivering them when they fire, and handling
// the user's acknowledge/mute responses.
package remind

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nhle/voicetask/internal/deadline"
	"github.com/nhle/voicetask/internal/logging"
	"github.com/nhle/voicetask/internal/model"
	"github.com/nhle/voicetask/internal/mute"
	"github.com/nhle/voicetask/internal/notify"
)

const (
	// DefaultLeadTime is how far before the deadline a reminder fires.
	// The single authoritative lead; ParsedDeadline.ReminderMinutes is
	// advisory and not consulted here.
	DefaultLeadTime = 15 * time.Minute

	// minTriggerDelay keeps a trigger from landing before the enqueue
	// itself completes.
	minTriggerDelay = 5 * time.Second
)

// Scheduler maintains the invariant that exactly one pending job exists
// for every eligible record and zero for every ineligible one.
//
// Scheduling is fire-and-forget: queue failures are logged and absorbed,
// never surfaced to the capture flow.
type Scheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	mute      mute.Store
	notifier  notify.Notifier
	log       *logging.Logger
	queue     string
	lead      time.Duration
	now       func() time.Time
}

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	Queue string        // defaults to "reminders"
	Lead  time.Duration // defaults to DefaultLeadTime
	Now   func() time.Time
}

// NewScheduler creates a Scheduler on the given queue connection.
func NewScheduler(
	redisOpt asynq.RedisClientOpt,
	muteStore mute.Store,
	notifier notify.Notifier,
	log *logging.Logger,
	opts SchedulerOptions,
) *Scheduler {
	queue := opts.Queue
	if queue == "" {
		queue = "reminders"
	}
	lead := opts.Lead
	if lead <= 0 {
		lead = DefaultLeadTime
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		mute:      muteStore,
		notifier:  notifier,
		log:       log,
		queue:     queue,
		lead:      lead,
		now:       now,
	}
}

// Close releases the queue connections.
func (s *Scheduler) Close() error {
	err := s.client.Close()
	if cerr := s.inspector.Close(); err == nil {
		err = cerr
	}
	return err
}

// ScheduleReminder enqueues (or replaces) the delayed reminder job for a
// record. Muted records are a no-op; records that are not events, are
// completed, or are already due have any existing job cancelled instead.
func (s *Scheduler) ScheduleReminder(ctx context.Context, rec model.VoiceRecord) {
	muted, err := s.mute.Contains(ctx, rec.ID)
	if err != nil {
		s.log.Warn("mute check failed, skipping schedule", "task_id", rec.ID, "error", err)
		return
	}
	if muted {
		return
	}

	now := s.now()
	if !rec.ReminderEligible(now) {
		s.CancelReminder(ctx, rec.ID)
		return
	}

	due := rec.DueAt()
	trigger := due.Add(-s.lead)
	if earliest := now.Add(minTriggerDelay); trigger.Before(earliest) {
		trigger = earliest
	}

	payload := Payload{
		TaskID:  rec.ID,
		Title:   deadline.FallbackTitle(rec.Transcript),
		DueAtMS: rec.CreatedAt,
	}
	data, err := payload.Marshal()
	if err != nil {
		s.log.Warn("encoding reminder payload failed", "task_id", rec.ID, "error", err)
		return
	}

	s.enqueueReplacing(ctx, rec.ID, data, trigger)
}

// enqueueReplacing deletes any job under the record's key and enqueues a
// fresh one. The fixed task ID makes this the queue's cancel-and-replace
// contract: two concurrent calls cannot leave two live jobs, only the
// loser of an ID conflict retries once.
func (s *Scheduler) enqueueReplacing(ctx context.Context, taskID int64, data []byte, trigger time.Time) {
	key := JobKey(taskID)
	s.deleteJob(key)

	task := asynq.NewTask(TypeDeliver, data)
	opts := []asynq.Option{
		asynq.TaskID(key),
		asynq.Queue(s.queue),
		asynq.ProcessAt(trigger),
		asynq.MaxRetry(0),
	}

	_, err := s.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// Lost a race with a concurrent reschedule. Replace once more;
		// whichever call runs last wins, which is all the invariant needs.
		s.deleteJob(key)
		_, err = s.client.EnqueueContext(ctx, task, opts...)
	}
	if err != nil {
		s.log.Warn("enqueueing reminder failed", "task_id", taskID, "error", err)
		return
	}
	s.log.Debug("reminder scheduled", "task_id", taskID, "trigger_at", trigger)
}

// CancelReminder removes the record's pending job, if any, and withdraws
// any currently visible notification. Idempotent: cancelling an absent
// or already-fired job is not an error.
func (s *Scheduler) CancelReminder(ctx context.Context, taskID int64) {
	s.deleteJob(JobKey(taskID))
	if err := s.notifier.Withdraw(taskID); err != nil {
		s.log.Warn("withdrawing notification failed", "task_id", taskID, "error", err)
	}
}

// deleteJob removes a job by key, treating "no such task/queue" as done.
func (s *Scheduler) deleteJob(key string) {
	err := s.inspector.DeleteTask(s.queue, key)
	if err == nil ||
		errors.Is(err, asynq.ErrTaskNotFound) ||
		errors.Is(err, asynq.ErrQueueNotFound) {
		return
	}
	s.log.Warn("deleting reminder job failed", "job_key", key, "error", err)
}

// SyncReminders reconciles the job queue against the full record list:
// schedule every eligible record, cancel everything else. Idempotent and
// safe to run on every start and after every list change, since enqueue
// is replace-on-conflict.
func (s *Scheduler) SyncReminders(ctx context.Context, records []model.VoiceRecord) {
	now := s.now()
	for _, rec := range records {
		if rec.ReminderEligible(now) {
			s.ScheduleReminder(ctx, rec)
		} else {
			s.CancelReminder(ctx, rec.ID)
		}
	}
}
