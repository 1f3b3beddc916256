package keybind

import "fmt"

// Keysym is the symbolic, layout-independent identity of a key, using the
// X11 keysym encoding: printable Latin-1 characters are their own code
// point, everything else comes from the protocol's named tables.
type Keysym uint32

// NoSymbol is the absent keysym.
const NoSymbol Keysym = 0

// namedKeysyms covers the non-trivial key names accepted in binding
// specs. Single printable ASCII characters resolve to their code point
// and do not need table entries.
var namedKeysyms = map[string]Keysym{
	"space":        0x0020,
	"exclam":       0x0021,
	"numbersign":   0x0023,
	"plus":         0x002b,
	"comma":        0x002c,
	"minus":        0x002d,
	"period":       0x002e,
	"slash":        0x002f,
	"semicolon":    0x003b,
	"equal":        0x003d,
	"backslash":    0x005c,
	"grave":        0x0060,
	"BackSpace":    0xff08,
	"Tab":          0xff09,
	"Return":       0xff0d,
	"Pause":        0xff13,
	"Escape":       0xff1b,
	"Home":         0xff50,
	"Left":         0xff51,
	"Up":           0xff52,
	"Right":        0xff53,
	"Down":         0xff54,
	"Prior":        0xff55,
	"Next":         0xff56,
	"End":          0xff57,
	"Insert":       0xff63,
	"Menu":         0xff67,
	"KP_Enter":     0xff8d,
	"KP_Multiply":  0xffaa,
	"KP_Add":       0xffab,
	"KP_Subtract":  0xffad,
	"KP_Divide":    0xffaf,
	"KP_0":         0xffb0,
	"F1":           0xffbe,
	"F2":           0xffbf,
	"F3":           0xffc0,
	"F4":           0xffc1,
	"F5":           0xffc2,
	"F6":           0xffc3,
	"F7":           0xffc4,
	"F8":           0xffc5,
	"F9":           0xffc6,
	"F10":          0xffc7,
	"F11":          0xffc8,
	"F12":          0xffc9,
	"Delete":       0xffff,
	"XF86AudioLowerVolume": 0x1008ff11,
	"XF86AudioMute":        0x1008ff12,
	"XF86AudioRaiseVolume": 0x1008ff13,
	"XF86AudioPlay":        0x1008ff14,
	"XF86AudioStop":        0x1008ff15,
	"XF86AudioPrev":        0x1008ff16,
	"XF86AudioNext":        0x1008ff17,
	"XF86AudioMicMute":     0x1008ffb2,
}

// LookupKeysym resolves a symbolic key name from a binding spec. Names
// are case-sensitive, matching the display server's own tables.
func LookupKeysym(name string) (Keysym, error) {
	if len(name) == 1 {
		c := name[0]
		if c > 0x20 && c < 0x7f {
			return Keysym(c), nil
		}
	}
	if sym, ok := namedKeysyms[name]; ok {
		return sym, nil
	}
	return NoSymbol, fmt.Errorf("unknown key name %q", name)
}
