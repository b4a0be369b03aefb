package alarm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"
)

// hapticPulses is the celebratory pattern: short pulses with gaps between.
var hapticPulses = []time.Duration{
	80 * time.Millisecond,
	120 * time.Millisecond,
	80 * time.Millisecond,
}

const hapticGap = 100 * time.Millisecond

// hapticLayer drives vibration through a user-configured command, invoked
// once per pulse. Hosts without haptic hardware leave the command empty and
// the layer degrades without touching audio or visual feedback.
type hapticLayer struct {
	command []string

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newHapticLayer(command []string) *hapticLayer {
	return &hapticLayer{command: command}
}

func (h *hapticLayer) Name() string { return "haptic" }

func (h *hapticLayer) Trigger(ctx context.Context) error {
	if len(h.command) == 0 {
		return errors.New("no haptic command configured")
	}
	if _, err := exec.LookPath(h.command[0]); err != nil {
		return fmt.Errorf("haptic command unavailable: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.cancel = cancel
	h.mu.Unlock()

	// Fire the pattern in the background so the chain keeps moving.
	go h.runPattern(runCtx)
	return nil
}

func (h *hapticLayer) runPattern(ctx context.Context) {
	for i, pulse := range hapticPulses {
		if ctx.Err() != nil {
			return
		}

		args := append(h.command[1:], fmt.Sprintf("%d", pulse.Milliseconds()))
		cmd := exec.CommandContext(ctx, h.command[0], args...)
		cmd.Run()

		if i < len(hapticPulses)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(hapticGap):
			}
		}
	}
}

func (h *hapticLayer) Stop() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.mu.Unlock()
}
