// Package keybind maps global keyboard shortcuts to mixer control edits:
// the binding table with its override rule, the textual binding grammar,
// and the matcher that turns a resolved key event into control edits.
package keybind

import (
	"github.com/ratchov/volkeys/internal/control"
)

// X11 modifier bits. Only Control, Mod1 (Alt) and Mod4 (Super) may appear
// in a binding's required mask; everything else (Shift, Lock, Num Lock,
// Mod2/3/5) is ignored when matching so shortcuts fire regardless of lock
// state.
const (
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod4       uint16 = 1 << 6

	// SupportedModMask restricts active modifier bits before matching.
	SupportedModMask = ModControl | Mod1 | Mod4
)

// Binding is one configured shortcut: the exact modifier set and keysym
// that trigger it, and the control-group edit it performs.
type Binding struct {
	ModMask uint16
	KeyName string
	Keysym  Keysym
	Name    string
	Func    string
	Dir     control.Direction
}

// Table holds the active bindings. At most one binding exists per
// (Name, Func, Dir) triple; binding order is insertion order and carries
// no meaning.
type Table struct {
	bindings []Binding
}

// NewTable returns a table pre-populated with the default bindings.
func NewTable() *Table {
	t := &Table{}
	for _, b := range Defaults() {
		t.Bind(b)
	}
	return t
}

// Bind inserts a binding, replacing any existing one for the same
// (Name, Func, Dir) triple. Last one wins.
func (t *Table) Bind(b Binding) {
	kept := t.bindings[:0]
	for _, old := range t.bindings {
		if old.Name == b.Name && old.Func == b.Func && old.Dir == b.Dir {
			continue
		}
		kept = append(kept, old)
	}
	t.bindings = append(kept, b)
}

// Bindings returns a copy of the current binding set.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Match returns every binding triggered by a key event whose keycode
// resolved to sym, with active modifier bits state. Bits outside the
// supported modifier set are discarded before the exact-mask comparison.
func (t *Table) Match(sym Keysym, state uint16) []Binding {
	var hits []Binding
	active := state & SupportedModMask
	for _, b := range t.bindings {
		if b.Keysym == sym && b.ModMask == active {
			hits = append(hits, b)
		}
	}
	return hits
}

// Defaults is the built-in binding set used when the user configures
// nothing: Ctrl+Alt+plus/minus change the output level, Ctrl+Alt+0
// toggles mute and Ctrl+Alt+Tab cycles the output device.
func Defaults() []Binding {
	mask := ModControl | Mod1
	return []Binding{
		{ModMask: mask, KeyName: "plus", Keysym: mustKeysym("plus"), Name: "output", Func: "level", Dir: control.Increase},
		{ModMask: mask, KeyName: "minus", Keysym: mustKeysym("minus"), Name: "output", Func: "level", Dir: control.Decrease},
		{ModMask: mask, KeyName: "0", Keysym: mustKeysym("0"), Name: "output", Func: "mute", Dir: control.Cycle},
		{ModMask: mask, KeyName: "Tab", Keysym: mustKeysym("Tab"), Name: "server", Func: "device", Dir: control.Cycle},
	}
}

func mustKeysym(name string) Keysym {
	sym, err := LookupKeysym(name)
	if err != nil {
		panic(err)
	}
	return sym
}
