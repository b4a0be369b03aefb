package session

// Action is the evaluator's verdict for one tick.
type Action int

const (
	ActionNone Action = iota
	ActionProgress
	ActionComplete
)

func (a Action) String() string {
	switch a {
	case ActionProgress:
		return "progress"
	case ActionComplete:
		return "complete"
	default:
		return "none"
	}
}

// The milestone fires inside a half-open window rather than at an exact
// instant: background ticks arrive at OS discretion, so an exact-match check
// would usually miss 10% entirely. Sessions too short for any tick to land in
// the window simply get no milestone.
const (
	milestoneLow  = 0.10
	milestoneHigh = 0.15
)

// evaluate decides what a tick at nowMS owes the user. Completion always wins
// over the progress milestone. Paused sessions are frozen and never trigger
// either. The caller must persist the milestone flag immediately after
// dispatching a progress notification, and delete the record after completion.
func evaluate(rec *Record, nowMS int64, milestoneSent bool) Action {
	if rec.IsPaused {
		return ActionNone
	}
	if rec.RemainingMS(nowMS) <= 0 {
		return ActionComplete
	}
	ratio := float64(nowMS-rec.StartTime) / float64(rec.DurationMS)
	if ratio >= milestoneLow && ratio < milestoneHigh && !milestoneSent {
		return ActionProgress
	}
	return ActionNone
}
