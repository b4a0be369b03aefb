package commands

import (
	"context"
	"testing"
	"time"

	"focusd/internal/alarm"
	"focusd/internal/store"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"25", 25 * time.Minute, false},
		{"25m", 25 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{" 45 ", 45 * time.Minute, false},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDuration(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDuration(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveActivity(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	a, err := s.CreateActivity("Deep Work", "#FF0000")
	if err != nil {
		t.Fatal(err)
	}

	rt := &runtime{store: s}

	id, err := resolveActivity(rt, "")
	if err != nil || id != "" {
		t.Fatalf("empty input should pass through, got %q / %v", id, err)
	}

	id, err = resolveActivity(rt, a.ID)
	if err != nil || id != a.ID {
		t.Fatalf("lookup by ID failed: %q / %v", id, err)
	}

	id, err = resolveActivity(rt, "deep work")
	if err != nil || id != a.ID {
		t.Fatalf("case-insensitive name lookup failed: %q / %v", id, err)
	}

	if _, err = resolveActivity(rt, "nope"); err == nil {
		t.Fatal("unknown activity should be an error")
	}
}

func TestCompletionAlarmAdapter(t *testing.T) {
	engine := alarm.NewEngineWithLayers(time.Second)
	a := completionAlarm{engine: engine}

	// An empty chain delivers nothing.
	if a.PlayCompletion(context.Background()) {
		t.Fatal("no layers means nothing succeeded")
	}
	a.Stop()
}
