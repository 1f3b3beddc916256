package keybind

import (
	"fmt"
	"strings"

	"github.com/ratchov/volkeys/internal/control"
)

// modifierNames is the closed set of modifiers allowed in binding specs.
var modifierNames = map[string]uint16{
	"Control": ModControl,
	"Mod1":    Mod1,
	"Mod4":    Mod4,
}

// legacyTargets maps historical function names to their control-group
// edit, kept for compatibility with old binding specs.
var legacyTargets = map[string]Binding{
	"inc_level": {Name: "output", Func: "level", Dir: control.Increase},
	"dec_level": {Name: "output", Func: "level", Dir: control.Decrease},
	"cycle_dev": {Name: "server", Func: "device", Dir: control.Cycle},
}

// Parse parses one binding spec of the form
//
//	[modifier+...]key:name.func{+|-|!}
//
// where the trailing character selects increase, decrease or cycle. The
// target may also be one of the legacy aliases inc_level, dec_level and
// cycle_dev. Any violation of the grammar is a configuration error for
// the caller to treat as fatal.
func Parse(spec string) (Binding, error) {
	keyPart, target, ok := strings.Cut(spec, ":")
	if !ok {
		return Binding{}, fmt.Errorf("%s: expected ':'", spec)
	}

	var mask uint16
	for {
		mod, rest, found := strings.Cut(keyPart, "+")
		if !found {
			break
		}
		bit, ok := modifierNames[mod]
		if !ok {
			return Binding{}, fmt.Errorf("%s: bad modifier %q", spec, mod)
		}
		mask |= bit
		keyPart = rest
	}
	if keyPart == "" {
		return Binding{}, fmt.Errorf("%s: missing key name", spec)
	}

	sym, err := LookupKeysym(keyPart)
	if err != nil {
		return Binding{}, fmt.Errorf("%s: %w", spec, err)
	}

	b := Binding{ModMask: mask, KeyName: keyPart, Keysym: sym}

	if legacy, ok := legacyTargets[target]; ok {
		b.Name, b.Func, b.Dir = legacy.Name, legacy.Func, legacy.Dir
		return b, nil
	}

	if target == "" {
		return Binding{}, fmt.Errorf("%s: missing control target", spec)
	}
	dir, err := parseDirection(target[len(target)-1])
	if err != nil {
		return Binding{}, fmt.Errorf("%s: %w", spec, err)
	}
	b.Dir = dir

	name, fn, ok := strings.Cut(target[:len(target)-1], ".")
	if !ok {
		return Binding{}, fmt.Errorf("%s: expected '.'", spec)
	}
	if name == "" || fn == "" {
		return Binding{}, fmt.Errorf("%s: empty control name or function", spec)
	}
	if strings.ContainsAny(fn, ".+-!") {
		return Binding{}, fmt.Errorf("%s: trailing garbage after function name", spec)
	}
	b.Name, b.Func = name, fn
	return b, nil
}

func parseDirection(c byte) (control.Direction, error) {
	switch c {
	case '+':
		return control.Increase, nil
	case '-':
		return control.Decrease, nil
	case '!':
		return control.Cycle, nil
	default:
		return 0, fmt.Errorf("bad direction character %q", string(c))
	}
}
