// Package control mirrors the audio service's live control set and applies
// bounded, quantized, and selector-style edits to it.
package control

import "strconv"

// NumSteps is the number of quantized level steps between 0 and the
// control's maximum, so a single key tap gives a perceptible change
// regardless of the control's native range.
const NumSteps = 20

// Addr is the opaque, transport-issued identifier of one control. It is
// unique and stable only while the control exists; addresses may be reused
// after a control is removed.
type Addr uint32

// Kind is the closed set of control shapes the registry understands.
type Kind int

const (
	// KindNumeric is a bounded integer value (e.g. a level fader).
	KindNumeric Kind = iota + 1
	// KindSwitch is a boolean toggle (e.g. mute), max value always 1.
	KindSwitch
	// KindSelector is one entry of a mutually exclusive option group
	// (e.g. the active output device).
	KindSelector
)

// Valid reports whether k is one of the supported kinds. Descriptors with
// any other kind are ignored rather than inserted.
func (k Kind) Valid() bool {
	return k >= KindNumeric && k <= KindSelector
}

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindSwitch:
		return "switch"
	case KindSelector:
		return "selector"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Direction selects the edit applied to a control group.
type Direction int

const (
	// Increase steps a numeric control up by one quantized step.
	Increase Direction = iota + 1
	// Decrease steps a numeric control down by one quantized step.
	Decrease
	// Cycle flips a switch or advances a selector group to its next entry.
	Cycle
)

func (d Direction) String() string {
	switch d {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	case Cycle:
		return "cycle"
	default:
		return "direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// Desc describes one control exposed by the audio service.
type Desc struct {
	Addr     Addr
	Group    string // scoping namespace, "" is top-level
	Name     string // what is controlled, e.g. "output"
	Unit     int    // channel number or duplicate index, -1 when absent
	Func     string // which parameter, e.g. "level"
	Kind     Kind
	MaxValue int    // inclusive upper bound, effectively 1 for switches
	Label    string // selector entries only: the option's display name
}

// SameGroup reports whether two descriptors belong to the same control
// group. Selector entries in one group are the mutually exclusive options
// of one logical choice.
func (d Desc) SameGroup(o Desc) bool {
	return d.Group == o.Group && d.Name == o.Name && d.Func == o.Func
}

// String renders the control path the way it appears in logs,
// e.g. "output.level", "app/firefox7.level" or "server.device[speakers]".
func (d Desc) String() string {
	s := d.Name
	if d.Group != "" {
		s = d.Group + "/" + s
	}
	if d.Unit >= 0 {
		s += strconv.Itoa(d.Unit)
	}
	s += "." + d.Func
	if d.Kind == KindSelector && d.Label != "" {
		s += "[" + d.Label + "]"
	}
	return s
}

// Control is one live registry entity: a descriptor plus its current value.
type Control struct {
	Desc
	Value int
}

// Compare defines the registry total order: (group, name, kind, func,
// unit), with selector entries of one group further ordered by label so
// that cycling walks the options in a stable, display-friendly order.
func Compare(a, b Desc) int {
	if c := strcmp(a.Group, b.Group); c != 0 {
		return c
	}
	if c := strcmp(a.Name, b.Name); c != 0 {
		return c
	}
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	if c := strcmp(a.Func, b.Func); c != 0 {
		return c
	}
	if a.Unit != b.Unit {
		if a.Unit < b.Unit {
			return -1
		}
		return 1
	}
	if a.Kind == KindSelector {
		if c := strcmp(a.Label, b.Label); c != 0 {
			return c
		}
	}
	return 0
}

func strcmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
