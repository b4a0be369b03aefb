//go:build linux

// Linux delivery via notify-send.
package notify

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// linuxNotifier keeps one notification slot alive for the whole process:
// the first send captures the server-assigned ID (--print-id) and every
// later send replaces it (--replace-id), so progress updates re-render in
// place instead of stacking in the notification center.
type linuxNotifier struct {
	mu        sync.Mutex
	replaceID string
}

func newPlatformNotifier() Notifier {
	return &linuxNotifier{}
}

// IsSupported returns true if notify-send is available.
func (n *linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (n *linuxNotifier) Send(p Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	args := []string{
		"--app-name=focusd",
	}

	if p.Silent {
		args = append(args, "--urgency=low")
	} else {
		args = append(args, "--urgency=normal")
	}

	if n.replaceID == "" {
		args = append(args, "--print-id", p.Title, p.Body)
		out, err := exec.Command("notify-send", args...).Output()
		if err != nil {
			return fmt.Errorf("notify-send failed: %w", err)
		}
		n.replaceID = strings.TrimSpace(string(out))
		return nil
	}

	args = append(args, "--replace-id="+n.replaceID, p.Title, p.Body)
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}

// Clear supersedes the on-screen notification with a transient render that
// expires immediately. notify-send has no close verb, so replace-and-expire
// is the closest the tool offers.
func (n *linuxNotifier) Clear() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.replaceID == "" {
		return nil
	}
	id := n.replaceID
	n.replaceID = ""

	args := []string{
		"--app-name=focusd",
		"--urgency=low",
		"--transient",
		"--expire-time=1",
		"--replace-id=" + id,
		" ",
	}
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
