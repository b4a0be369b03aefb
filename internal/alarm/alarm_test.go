package alarm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"focusd/internal/notify"
)

// fakeLayer records trigger/stop calls and fails on demand.
type fakeLayer struct {
	name      string
	fail      bool
	panics    bool
	triggered atomic.Int32
	stopped   atomic.Int32
}

func (f *fakeLayer) Name() string { return f.name }

func (f *fakeLayer) Trigger(ctx context.Context) error {
	f.triggered.Add(1)
	if f.panics {
		panic("layer exploded")
	}
	if f.fail {
		return errors.New("hardware says no")
	}
	return nil
}

func (f *fakeLayer) Stop() { f.stopped.Add(1) }

func chain() (*fakeLayer, *fakeLayer, *fakeLayer) {
	return &fakeLayer{name: "audio"}, &fakeLayer{name: "haptic"}, &fakeLayer{name: "visual"}
}

func TestPlayCompletionAllSucceed(t *testing.T) {
	audio, haptic, visual := chain()
	e := NewEngineWithLayers(time.Hour, audio, haptic, visual)
	t.Cleanup(e.Stop)

	st := e.PlayCompletion(context.Background())
	if !st.AnySucceeded() {
		t.Fatal("expected success")
	}
	if len(st.Succeeded) != 3 || len(st.Failed) != 0 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestVisualStillFiresWhenEarlierLayersFail(t *testing.T) {
	cases := []struct {
		name                  string
		audioFail, hapticFail bool
	}{
		{"audio fails", true, false},
		{"haptic fails", false, true},
		{"both fail", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			audio, haptic, visual := chain()
			audio.fail = tc.audioFail
			haptic.fail = tc.hapticFail
			e := NewEngineWithLayers(time.Hour, audio, haptic, visual)
			t.Cleanup(e.Stop)

			st := e.PlayCompletion(context.Background())
			if visual.triggered.Load() != 1 {
				t.Fatal("visual layer must always be attempted")
			}
			if !st.AnySucceeded() {
				t.Fatal("visual success should count")
			}
		})
	}
}

func TestAllLayersFailStillReturns(t *testing.T) {
	audio, haptic, visual := chain()
	audio.fail, haptic.fail, visual.fail = true, true, true
	e := NewEngineWithLayers(time.Hour, audio, haptic, visual)
	t.Cleanup(e.Stop)

	st := e.PlayCompletion(context.Background())
	if st.AnySucceeded() {
		t.Fatal("no layer succeeded")
	}
	if len(st.Failed) != 3 {
		t.Fatalf("expected 3 failures, got %+v", st)
	}
}

func TestPanickingLayerDoesNotBlockChain(t *testing.T) {
	audio, haptic, visual := chain()
	audio.panics = true
	e := NewEngineWithLayers(time.Hour, audio, haptic, visual)
	t.Cleanup(e.Stop)

	st := e.PlayCompletion(context.Background())
	if haptic.triggered.Load() != 1 || visual.triggered.Load() != 1 {
		t.Fatal("later layers must still run after a panic")
	}
	if len(st.Failed) != 1 || st.Failed[0] != "audio" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestAutoStopHaltsPlayback(t *testing.T) {
	audio, haptic, visual := chain()
	e := NewEngineWithLayers(10*time.Millisecond, audio, haptic, visual)

	e.PlayCompletion(context.Background())

	deadline := time.After(2 * time.Second)
	for audio.stopped.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("auto-stop never fired")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStopCancelsAutoStopTimer(t *testing.T) {
	audio, haptic, visual := chain()
	e := NewEngineWithLayers(50*time.Millisecond, audio, haptic, visual)

	e.PlayCompletion(context.Background())
	e.Stop()
	stops := audio.stopped.Load()

	time.Sleep(100 * time.Millisecond)
	if audio.stopped.Load() != stops {
		t.Fatal("auto-stop fired after explicit Stop")
	}
}

func TestStopWithNothingPlaying(t *testing.T) {
	audio, haptic, visual := chain()
	e := NewEngineWithLayers(time.Hour, audio, haptic, visual)
	e.Stop() // must not panic
	e.Stop()
}

func TestNewEngineBuildsStandardChain(t *testing.T) {
	e := NewEngine(notify.NewNoop(), Options{})
	if len(e.layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(e.layers))
	}
	names := []string{"audio", "haptic", "visual"}
	for i, l := range e.layers {
		if l.Name() != names[i] {
			t.Fatalf("layer %d = %s, want %s", i, l.Name(), names[i])
		}
	}
	if e.autoStop != DefaultAutoStop {
		t.Fatalf("autoStop = %v, want default", e.autoStop)
	}
}
