package session

import (
	"fmt"

	"ishe/internal/services"
)

// State is the lifecycle position of a session.
type State int

const (
	Idle State = iota
	Recording
	Review
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Review:
		return "review"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrNotRecording is returned when a sample arrives outside Recording.
	ErrNotRecording = fmt.Errorf("%w: session is not recording", services.ErrValidation)
	// ErrInvalidTransition is returned for lifecycle events the current state does not accept.
	ErrInvalidTransition = fmt.Errorf("%w: invalid session transition", services.ErrValidation)
	// ErrValueOutOfRange is returned for slider values outside the configured range.
	ErrValueOutOfRange = fmt.Errorf("%w: value out of range", services.ErrValidation)
	// ErrNoSession is returned when a recording is requested before any session started.
	ErrNoSession = fmt.Errorf("%w: no session started", services.ErrValidation)
)

func transitionError(event string, from State) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, from)
}
