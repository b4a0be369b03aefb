//go:build !darwin && !linux

// No-op implementation for unsupported platforms.
package notify

type stubNotifier struct{}

func newPlatformNotifier() Notifier {
	return &stubNotifier{}
}

func (n *stubNotifier) Send(p Payload) error {
	return nil
}

func (n *stubNotifier) Clear() error {
	return nil
}

func (n *stubNotifier) IsSupported() bool {
	return false
}
