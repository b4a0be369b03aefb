// Package alarm plays layered completion feedback: sound, then haptics, then
// a visual acknowledgment. Each layer is an independent attempt; a failing
// layer is logged and skipped, and the visual layer is the guaranteed
// fallback for users with muted audio or no haptic hardware.
package alarm

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"focusd/internal/notify"
)

// DefaultAutoStop bounds how long playback may run after completion.
const DefaultAutoStop = 10 * time.Second

// Layer is one feedback channel. Trigger failures never abort the chain.
type Layer interface {
	Name() string
	Trigger(ctx context.Context) error
	Stop()
}

// Status reports which layers fired. PlayCompletion never returns an error;
// callers proceed with session teardown regardless of playback fidelity.
type Status struct {
	Succeeded []string
	Failed    []string
}

func (s Status) AnySucceeded() bool {
	return len(s.Succeeded) > 0
}

// Options configure the engine's layers.
type Options struct {
	// SoundPath is the audio file for the completion sound. Empty means the
	// audio layer picks a platform default.
	SoundPath string

	// Volume in [0, 1].
	Volume float64

	// HapticCommand is an external command invoked for haptic feedback.
	// Empty means no haptic device is configured and the layer degrades.
	HapticCommand []string

	// AutoStop bounds playback duration. Zero means DefaultAutoStop.
	AutoStop time.Duration
}

type Engine struct {
	layers   []Layer
	autoStop time.Duration

	mu        sync.Mutex
	stopTimer *time.Timer
}

// NewEngine builds the standard chain: audio, haptic, visual. The visual
// layer renders through the notifier so completion is acknowledged even when
// every hardware channel fails.
func NewEngine(notifier notify.Notifier, opts Options) *Engine {
	autoStop := opts.AutoStop
	if autoStop <= 0 {
		autoStop = DefaultAutoStop
	}
	return &Engine{
		layers: []Layer{
			newAudioLayer(opts.SoundPath, opts.Volume),
			newHapticLayer(opts.HapticCommand),
			newVisualLayer(notifier),
		},
		autoStop: autoStop,
	}
}

// NewEngineWithLayers is for tests and custom chains.
func NewEngineWithLayers(autoStop time.Duration, layers ...Layer) *Engine {
	if autoStop <= 0 {
		autoStop = DefaultAutoStop
	}
	return &Engine{layers: layers, autoStop: autoStop}
}

// PlayCompletion runs every layer in order, then arms the auto-stop timer so
// feedback never persists indefinitely.
func (e *Engine) PlayCompletion(ctx context.Context) Status {
	var st Status
	for _, l := range e.layers {
		if err := attempt(ctx, l); err != nil {
			log.Printf("alarm: %s layer degraded: %v", l.Name(), err)
			st.Failed = append(st.Failed, l.Name())
			continue
		}
		st.Succeeded = append(st.Succeeded, l.Name())
	}

	e.mu.Lock()
	if e.stopTimer != nil {
		e.stopTimer.Stop()
	}
	e.stopTimer = time.AfterFunc(e.autoStop, e.stopLayers)
	e.mu.Unlock()

	return st
}

// Stop cancels the auto-stop timer and halts any still-active playback.
// Safe to call at any time, including with nothing playing.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopTimer != nil {
		e.stopTimer.Stop()
		e.stopTimer = nil
	}
	e.mu.Unlock()

	e.stopLayers()
}

func (e *Engine) stopLayers() {
	for _, l := range e.layers {
		l.Stop()
	}
}

// attempt is the failure boundary around a single layer. A panicking layer is
// contained the same way as an erroring one.
func attempt(ctx context.Context, l Layer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("layer panic: %v", r)
		}
	}()
	return l.Trigger(ctx)
}
