// Package notification sends native desktop notifications for milestones
// that happen while the user may be looking elsewhere, like clearing the
// review queue.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"
)

const sendTimeout = 5 * time.Second

// Notifier sends platform-native notifications. A disabled notifier is
// valid and does nothing.
type Notifier struct {
	enabled bool
}

// New returns a Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// QueueCleared announces that the last pending item has been triaged.
func (n *Notifier) QueueCleared(ctx context.Context, count int) {
	n.Notify(ctx, "sift", fmt.Sprintf("Queue clear: %d items triaged", count))
}

// Notify sends a notification in the background. Failures are logged,
// never surfaced; a missing notify helper must not break triage.
func (n *Notifier) Notify(ctx context.Context, title, message string) {
	if !n.enabled {
		return
	}
	go func() {
		if err := send(ctx, title, message); err != nil {
			slog.Warn("Failed to send notification", "error", err, "title", title)
		}
	}()
}

func send(ctx context.Context, title, message string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		return runCmd(ctx, "osascript", "-e", script)
	case "linux":
		return runCmd(ctx, "notify-send", title, message)
	case "windows":
		script := fmt.Sprintf(
			"[System.Reflection.Assembly]::LoadWithPartialName('System.Windows.Forms'); [System.Windows.Forms.MessageBox]::Show(%q, %q)",
			message, title,
		)
		return runCmd(ctx, "powershell", "-NoProfile", "-Command", script)
	default:
		return fmt.Errorf("notifications not supported on %s", runtime.GOOS)
	}
}

func runCmd(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w, output: %s", name, err, output)
	}
	return nil
}
