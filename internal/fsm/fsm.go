// Package fsm models the audio-control transport link lifecycle used for
// lazy reconnection.
package fsm

import "fmt"

type State string

type Event string

const (
	// StateUp: transport connected, controls mirrored, edits flow.
	StateUp State = "up"
	// StateDown: transport lost or never opened; the next edit attempt
	// triggers a reopen before giving up.
	StateDown State = "down"
	// StateClosed: shutting down, no further reopen attempts.
	StateClosed State = "closed"
)

const (
	EventOpened Event = "opened"
	EventHangup Event = "hangup"
	EventClose  Event = "close"
)

func Transition(current State, event Event) (State, error) {
	if event == EventClose {
		return StateClosed, nil
	}

	switch current {
	case StateUp:
		switch event {
		case EventHangup:
			return StateDown, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateDown:
		switch event {
		case EventOpened:
			return StateUp, nil
		case EventHangup:
			return current, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateClosed:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
