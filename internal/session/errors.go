package session

import "errors"

var (
	// ErrInvalidDuration rejects Start before any state is written.
	ErrInvalidDuration = errors.New("session duration must be positive")

	// ErrNoSession is returned by pause/resume when nothing is running.
	ErrNoSession = errors.New("no active session")

	// ErrSessionActive is returned by Start while a session exists.
	// Stop the current session first; Start never implicitly discards state.
	ErrSessionActive = errors.New("a session is already active")
)
