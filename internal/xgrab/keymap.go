package xgrab

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/ratchov/volkeys/internal/keybind"
)

// keymapTable is a snapshot of the server's keycode-to-keysym mapping,
// refreshed whenever a MappingNotify arrives.
type keymapTable struct {
	first xproto.Keycode
	per   int
	syms  []xproto.Keysym
}

// loadKeymap fetches the full keyboard mapping for the server's keycode
// range.
func loadKeymap(conn *xgb.Conn) (keymapTable, error) {
	setup := xproto.Setup(conn)
	first := setup.MinKeycode
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)

	reply, err := xproto.GetKeyboardMapping(conn, first, count).Reply()
	if err != nil {
		return keymapTable{}, fmt.Errorf("get keyboard mapping: %w", err)
	}
	if reply.KeysymsPerKeycode < 2 {
		return keymapTable{}, fmt.Errorf("keyboard mapping has no shift column")
	}
	return keymapTable{
		first: first,
		per:   int(reply.KeysymsPerKeycode),
		syms:  reply.Keysyms,
	}, nil
}

// symAt returns the keysym of code in the given shift column, or
// NoSymbol when out of range.
func (k keymapTable) symAt(code xproto.Keycode, col int) keybind.Keysym {
	if k.per == 0 || code < k.first || col >= k.per {
		return keybind.NoSymbol
	}
	i := int(code-k.first)*k.per + col
	if i >= len(k.syms) {
		return keybind.NoSymbol
	}
	return keybind.Keysym(k.syms[i])
}

// codeFor finds the keycode a keysym currently lives on, scanning columns
// in significance order the way the display server's own lookup does.
// Zero means the symbol is not on the keyboard.
func (k keymapTable) codeFor(sym keybind.Keysym) xproto.Keycode {
	nCodes := 0
	if k.per > 0 {
		nCodes = len(k.syms) / k.per
	}
	for col := 0; col < k.per; col++ {
		for i := 0; i < nCodes; i++ {
			code := k.first + xproto.Keycode(i)
			if k.symAt(code, col) == sym {
				return code
			}
		}
	}
	return 0
}
