package xgrab

import (
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/require"

	"github.com/ratchov/volkeys/internal/keybind"
)

// testKeymap: keycodes 8..11, two columns (plain, shifted).
func testKeymap() keymapTable {
	return keymapTable{
		first: 8,
		per:   2,
		syms: []xproto.Keysym{
			'a', 'A', // keycode 8
			'=', '+', // keycode 9
			0xff09, 0xff09, // keycode 10: Tab
			'0', '=', // keycode 11: '=' also lives shifted here
		},
	}
}

func TestSymAt(t *testing.T) {
	km := testKeymap()
	require.Equal(t, keybind.Keysym('a'), km.symAt(8, 0))
	require.Equal(t, keybind.Keysym('A'), km.symAt(8, 1))
	require.Equal(t, keybind.Keysym('+'), km.symAt(9, 1))
	require.Equal(t, keybind.NoSymbol, km.symAt(7, 0), "below range")
	require.Equal(t, keybind.NoSymbol, km.symAt(200, 0), "above range")
	require.Equal(t, keybind.NoSymbol, km.symAt(8, 5), "column out of range")
}

func TestCodeForScansColumnsInOrder(t *testing.T) {
	km := testKeymap()
	require.Equal(t, xproto.Keycode(8), km.codeFor('a'))
	require.Equal(t, xproto.Keycode(10), km.codeFor(0xff09))
	require.Equal(t, xproto.Keycode(8), km.codeFor('A'))
	// '=' exists unshifted on 9 and shifted on 11; plain columns win.
	require.Equal(t, xproto.Keycode(9), km.codeFor('='))
	require.Equal(t, xproto.Keycode(9), km.codeFor('+'))
	require.Equal(t, xproto.Keycode(0), km.codeFor(0x1008ff13), "absent keysym")
}
