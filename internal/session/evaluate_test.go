package session

import "testing"

func TestEvaluateWindow(t *testing.T) {
	rec := &Record{StartTime: 0, DurationMS: 1_000_000}

	tests := []struct {
		name  string
		nowMS int64
		sent  bool
		want  Action
	}{
		{"before window", 99_999, false, ActionNone},
		{"window lower bound inclusive", 100_000, false, ActionProgress},
		{"inside window", 120_000, false, ActionProgress},
		{"upper bound exclusive", 150_000, false, ActionNone},
		{"inside window already sent", 120_000, true, ActionNone},
		{"past window never sent", 400_000, false, ActionNone},
		{"at completion", 1_000_000, false, ActionComplete},
		{"past completion", 5_000_000, true, ActionComplete},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := evaluate(rec, tc.nowMS, tc.sent); got != tc.want {
				t.Fatalf("evaluate(now=%d, sent=%v) = %v, want %v", tc.nowMS, tc.sent, got, tc.want)
			}
		})
	}
}

func TestEvaluatePausedNeverFires(t *testing.T) {
	rec := &Record{
		StartTime:        0,
		DurationMS:       1_000_000,
		IsPaused:         true,
		RemainingAtPause: 0, // even exhausted, a paused session stays frozen
	}
	for _, nowMS := range []int64{120_000, 1_000_000, 9_999_999} {
		if got := evaluate(rec, nowMS, false); got != ActionNone {
			t.Fatalf("paused evaluate(now=%d) = %v, want none", nowMS, got)
		}
	}
}

func TestEvaluateCompletionBeatsMilestone(t *testing.T) {
	// A tiny session where 10% and 100% can land on the same tick.
	rec := &Record{StartTime: 0, DurationMS: 100}
	if got := evaluate(rec, 200, false); got != ActionComplete {
		t.Fatalf("evaluate = %v, want complete", got)
	}
}

func TestEvaluateProgressOnceUnderRepeatedInvocation(t *testing.T) {
	rec := &Record{StartTime: 0, DurationMS: 1_000_000}

	fired := 0
	sent := false
	for i := 0; i < 1000; i++ {
		if evaluate(rec, 120_000, sent) == ActionProgress {
			fired++
			sent = true // caller persists the flag after dispatch
		}
	}
	if fired != 1 {
		t.Fatalf("progress fired %d times, want exactly 1", fired)
	}
}

func TestActionString(t *testing.T) {
	if ActionNone.String() != "none" || ActionProgress.String() != "progress" || ActionComplete.String() != "complete" {
		t.Fatal("unexpected Action strings")
	}
}
