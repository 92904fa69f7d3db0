package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// Desktop shows reminders as macOS notifications via osascript.
//
// osascript notifications carry no action buttons and cannot be
// withdrawn programmatically, so Show ignores actions (the user responds
// through the CLI ack/mute commands instead) and Withdraw is a no-op.
type Desktop struct {
	enabled bool
}

// NewDesktop creates a desktop notifier. It reports disabled when the
// config switches notifications off or osascript is not on PATH, so the
// delivery worker degrades to history-only recording.
func NewDesktop(enabled bool) *Desktop {
	if enabled {
		if _, err := exec.LookPath("osascript"); err != nil {
			enabled = false
		}
	}
	return &Desktop{enabled: enabled}
}

// Enabled reports whether alerts can be shown.
func (d *Desktop) Enabled() bool { return d.enabled }

// Show sends a macOS notification with sound.
func (d *Desktop) Show(taskID int64, title, body string, _ []Action) error {
	title = escapeAppleScript(title)
	body = escapeAppleScript(body)

	script := fmt.Sprintf(
		`display notification %q with title %q sound name "default"`,
		body, title,
	)

	cmd := exec.Command("osascript", "-e", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Withdraw is a no-op: osascript notifications dismiss themselves.
func (d *Desktop) Withdraw(taskID int64) error { return nil }

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
