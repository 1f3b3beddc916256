package xgrab

import "github.com/ratchov/volkeys/internal/keybind"

// Event is the discriminated union of display-server notifications
// consumed by the dispatcher.
type Event interface {
	isEvent()
}

// KeyPress is one grabbed key going down. Sym is the keysym the keycode
// resolves to under the event's shift state, so matching is independent
// of the physical layout.
type KeyPress struct {
	Code uint8
	Mods uint16
	Sym  keybind.Keysym
}

// KeymapChanged signals that the keyboard mapping changed and every grab
// must be re-resolved and re-acquired.
type KeymapChanged struct{}

// HangUp signals that the display-server connection closed.
type HangUp struct{}

func (KeyPress) isEvent()      {}
func (KeymapChanged) isEvent() {}
func (HangUp) isEvent()        {}
