package pamix

import "github.com/ratchov/volkeys/internal/control"

// Event is the discriminated union of audio-service notifications consumed
// by the dispatcher. The stream is a mirror protocol: after the initial
// snapshot, every change on the server side arrives as an Added, Removed or
// ValueChanged delta, and HangUp terminates the stream.
type Event interface {
	isEvent()
}

// Added announces a control that appeared, or whose descriptor was
// reissued. The receiver replaces any previous control at the same address.
type Added struct {
	Desc  control.Desc
	Value int
}

// Removed announces that the control at Addr no longer exists.
type Removed struct {
	Addr control.Addr
}

// ValueChanged carries an external value change for a known control.
type ValueChanged struct {
	Addr  control.Addr
	Value int
}

// HangUp signals that the audio-service connection is gone; the mirrored
// control set is stale and must be discarded.
type HangUp struct{}

func (Added) isEvent()        {}
func (Removed) isEvent()      {}
func (ValueChanged) isEvent() {}
func (HangUp) isEvent()       {}
