package session

import (
	"testing"
	"time"
)

func TestRemainingWhileRunning(t *testing.T) {
	rec := &Record{StartTime: 1_000_000, DurationMS: 600_000}

	tests := []struct {
		nowMS int64
		want  int64
	}{
		{1_000_000, 600_000},
		{1_060_000, 540_000},
		{1_599_999, 1},
		{1_600_000, 0},
		{2_000_000, 0}, // clamped, never negative
	}
	for _, tc := range tests {
		if got := rec.RemainingMS(tc.nowMS); got != tc.want {
			t.Errorf("RemainingMS(%d) = %d, want %d", tc.nowMS, got, tc.want)
		}
	}
}

func TestRemainingMonotonicallyNonIncreasing(t *testing.T) {
	rec := &Record{StartTime: 0, DurationMS: 1_500_000}
	prev := rec.RemainingMS(0)
	for nowMS := int64(0); nowMS <= 2_000_000; nowMS += 7_321 {
		got := rec.RemainingMS(nowMS)
		if got > prev {
			t.Fatalf("remaining increased at now=%d: %d > %d", nowMS, got, prev)
		}
		prev = got
	}
}

func TestRemainingConstantWhilePaused(t *testing.T) {
	rec := &Record{
		StartTime:        0,
		DurationMS:       600_000,
		IsPaused:         true,
		PausedAt:         100_000,
		RemainingAtPause: 500_000,
	}
	for _, nowMS := range []int64{100_000, 500_000, 10_000_000} {
		if got := rec.RemainingMS(nowMS); got != 500_000 {
			t.Fatalf("paused remaining at now=%d: got %d, want 500000", nowMS, got)
		}
	}
}

func TestRemainingIdempotentAtSameInstant(t *testing.T) {
	rec := &Record{StartTime: 42, DurationMS: 1000}
	first := rec.RemainingMS(500)
	for i := 0; i < 100; i++ {
		if got := rec.RemainingMS(500); got != first {
			t.Fatalf("call %d returned %d, first returned %d", i, got, first)
		}
	}
}

func TestRemainingDuration(t *testing.T) {
	rec := &Record{StartTime: 0, DurationMS: 90_000}
	now := time.UnixMilli(30_000)
	if got := rec.Remaining(now); got != time.Minute {
		t.Fatalf("Remaining = %v, want 1m", got)
	}
}

func TestElapsedRatio(t *testing.T) {
	rec := &Record{StartTime: 0, DurationMS: 1_000_000}

	tests := []struct {
		nowMS int64
		want  float64
	}{
		{0, 0},
		{100_000, 0.1},
		{500_000, 0.5},
		{1_000_000, 1},
		{2_000_000, 1}, // clamped
	}
	for _, tc := range tests {
		if got := rec.ElapsedRatio(tc.nowMS); got != tc.want {
			t.Errorf("ElapsedRatio(%d) = %v, want %v", tc.nowMS, got, tc.want)
		}
	}
}

func TestElapsedRatioPausedIsFrozen(t *testing.T) {
	rec := &Record{
		StartTime:        0,
		DurationMS:       1_000_000,
		IsPaused:         true,
		RemainingAtPause: 750_000,
	}
	if got := rec.ElapsedRatio(999_999_999); got != 0.25 {
		t.Fatalf("paused ratio = %v, want 0.25", got)
	}
}
