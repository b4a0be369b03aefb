//go:build darwin

// macOS delivery via osascript.
package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

type darwinNotifier struct{}

func newPlatformNotifier() Notifier {
	return &darwinNotifier{}
}

// IsSupported returns true if osascript is available.
func (n *darwinNotifier) IsSupported() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

func (n *darwinNotifier) Send(p Payload) error {
	title := escapeAppleScript(p.Title)
	body := escapeAppleScript(p.Body)

	var script string
	if p.Silent {
		script = fmt.Sprintf(`display notification %q with title %q`, body, title)
	} else {
		script = fmt.Sprintf(`display notification %q with title %q sound name "default"`, body, title)
	}

	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}

	return nil
}

// Clear is a no-op: osascript can post notifications but cannot replace or
// dismiss them, so stale renders age out of Notification Center on their own.
func (n *darwinNotifier) Clear() error {
	return nil
}

// escapeAppleScript escapes special characters for AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
