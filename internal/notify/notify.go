// Package notify is the notification rendering facade. It translates a
// computed payload into a platform notification using native mechanisms on
// macOS (osascript) and Linux (notify-send). Delivery is best-effort: send
// failures are reported to the caller for logging, never propagated as timer
// errors.
package notify

// Payload is one rendered notification. Silent payloads update the visible
// progress state without demanding attention; non-silent payloads (milestone,
// completion) play the platform notification sound.
type Payload struct {
	Title  string
	Body   string
	Silent bool
}

// Notifier delivers payloads to the platform notification surface.
type Notifier interface {
	Send(p Payload) error

	// Clear removes the last rendered notification from the platform
	// surface, where the platform allows it. Used on session teardown so a
	// stopped session does not leave a stale progress render on screen.
	Clear() error

	// IsSupported returns true if notifications can be delivered on this
	// platform.
	IsSupported() bool
}

type noopNotifier struct{}

func (n *noopNotifier) Send(p Payload) error {
	return nil
}

func (n *noopNotifier) Clear() error {
	return nil
}

func (n *noopNotifier) IsSupported() bool {
	return false
}

// NewNoop returns a notifier that drops every payload.
func NewNoop() Notifier {
	return &noopNotifier{}
}

// New creates a platform-specific notifier.
// Returns a no-op notifier if the platform doesn't support notifications.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return &noopNotifier{}
	}
	return n
}
