package remind

import (
	"context"
	"fmt"

	"github.com/nhle/voicetask/internal/logging"
	"github.com/nhle/voicetask/internal/mute"
	"github.com/nhle/voicetask/internal/notify"
	"github.com/nhle/voicetask/internal/store"
)

// ActionHandler processes the user's response to a delivered reminder.
type ActionHandler struct {
	store    store.Store
	mute     mute.Store
	sched    *Scheduler
	notifier notify.Notifier
	log      *logging.Logger
}

// NewActionHandler creates an action handler.
func NewActionHandler(s store.Store, m mute.Store, sched *Scheduler, n notify.Notifier, log *logging.Logger) *ActionHandler {
	return &ActionHandler{store: s, mute: m, sched: sched, notifier: n, log: log}
}

// Handle applies a notification action. Acknowledge marks every history
// entry for the task as read; mute additionally records the task in the
// mute set and cancels its pending job. The visible notification is
// withdrawn last in both branches, even when the updates fail, so a
// stuck alert can never outlive its response.
func (h *ActionHandler) Handle(ctx context.Context, action notify.Action, taskID int64) error {
	switch action {
	case notify.ActionAcknowledge:
		defer h.withdraw(taskID)
		if err := h.store.MarkTaskNotificationsRead(ctx, taskID); err != nil {
			h.log.Warn("marking notifications read failed", "task_id", taskID, "error", err)
		}
	case notify.ActionMute:
		// CancelReminder deletes the pending job and withdraws the alert.
		defer h.sched.CancelReminder(ctx, taskID)
		if err := h.store.MarkTaskNotificationsRead(ctx, taskID); err != nil {
			h.log.Warn("marking notifications read failed", "task_id", taskID, "error", err)
		}
		if err := h.mute.Add(ctx, taskID); err != nil {
			h.log.Warn("recording mute failed", "task_id", taskID, "error", err)
		}
	default:
		return fmt.Errorf("unknown notification action %q", action)
	}
	return nil
}

func (h *ActionHandler) withdraw(taskID int64) {
	if err := h.notifier.Withdraw(taskID); err != nil {
		h.log.Warn("withdrawing notification failed", "task_id", taskID, "error", err)
	}
}
