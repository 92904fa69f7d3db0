package remind

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/nhle/voicetask/internal/logging"
	"github.com/nhle/voicetask/internal/model"
	"github.com/nhle/voicetask/internal/mute"
	"github.com/nhle/voicetask/internal/notify"
	"github.com/nhle/voicetask/internal/store"
)

// bodyTimeLayout renders the deadline inside the notification body.
const bodyTimeLayout = "Mon, Jan 2 15:04"

// Worker delivers a reminder when its job fires. The job runner only
// guarantees that at least the delay has elapsed, so delivery may run
// well after the trigger time.
type Worker struct {
	store    store.Store
	mute     mute.Store
	notifier notify.Notifier
	log      *logging.Logger
	now      func() time.Time
}

// NewWorker creates a delivery worker.
func NewWorker(s store.Store, m mute.Store, n notify.Notifier, log *logging.Logger) *Worker {
	return &Worker{store: s, mute: m, notifier: n, log: log, now: time.Now}
}

// HandleDeliver processes one reminder firing. History is written before
// the permission gate is consulted, so an audit trail exists even when no
// alert can be shown. A payload that cannot be decoded is a terminal
// failure: a corrected payload cannot be recovered, so the job is not
// retried.
func (w *Worker) HandleDeliver(ctx context.Context, t *asynq.Task) error {
	p, err := UnmarshalPayload(t.Payload())
	if err != nil {
		w.log.Error("dropping malformed reminder job", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	// Mute is re-read at delivery time: the task may have been muted
	// after this job was enqueued.
	muted, err := w.mute.Contains(ctx, p.TaskID)
	if err != nil {
		w.log.Warn("mute check failed at delivery", "task_id", p.TaskID, "error", err)
	}
	if muted {
		return nil
	}

	due := p.DueAt()
	body := fmt.Sprintf("Due %s", due.In(time.Local).Format(bodyTimeLayout))

	entry := model.NotificationHistory{
		ID:        uuid.New().String(),
		TaskID:    p.TaskID,
		Title:     p.Title,
		Body:      body,
		DueAt:     due.UTC(),
		CreatedAt: w.now().UTC(),
	}
	if err := w.store.CreateNotification(ctx, entry); err != nil {
		w.log.Warn("recording notification history failed", "task_id", p.TaskID, "error", err)
	}

	if !w.notifier.Enabled() {
		w.log.Debug("notifications not permitted, history only", "task_id", p.TaskID)
		return nil
	}

	actions := []notify.Action{notify.ActionAcknowledge, notify.ActionMute}
	if err := w.notifier.Show(p.TaskID, p.Title, body, actions); err != nil {
		w.log.Warn("showing notification failed", "task_id", p.TaskID, "error", err)
	}
	return nil
}
