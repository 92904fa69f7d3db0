// Package notify is the boundary to the platform's notification surface.
package notify

// Action identifies a response button attached to a reminder alert.
type Action string

const (
	// ActionAcknowledge marks the reminder as seen.
	ActionAcknowledge Action = "acknowledge"

	// ActionMute marks it seen and silences the task permanently.
	ActionMute Action = "mute"
)

// Notifier renders and withdraws user-visible reminder alerts.
//
// Enabled is the permission gate: when it reports false the delivery
// worker still records history but shows nothing. Withdraw is always
// safe; withdrawing an absent or already-dismissed alert must not error.
type Notifier interface {
	Enabled() bool
	Show(taskID int64, title, body string, actions []Action) error
	Withdraw(taskID int64) error
}
