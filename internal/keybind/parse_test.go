package keybind

import (
	"testing"

	"github.com/ratchov/volkeys/internal/control"
)

func TestParseValidSpecs(t *testing.T) {
	tests := []struct {
		spec string
		want Binding
	}{
		{
			spec: "Control+Mod1+plus:output.level+",
			want: Binding{ModMask: ModControl | Mod1, KeyName: "plus", Keysym: 0x2b, Name: "output", Func: "level", Dir: control.Increase},
		},
		{
			spec: "Mod4+m:output.mute!",
			want: Binding{ModMask: Mod4, KeyName: "m", Keysym: 'm', Name: "output", Func: "mute", Dir: control.Cycle},
		},
		{
			spec: "XF86AudioLowerVolume:output.level-",
			want: Binding{ModMask: 0, KeyName: "XF86AudioLowerVolume", Keysym: 0x1008ff11, Name: "output", Func: "level", Dir: control.Decrease},
		},
		{
			spec: "Control+Mod1+Tab:server.device!",
			want: Binding{ModMask: ModControl | Mod1, KeyName: "Tab", Keysym: 0xff09, Name: "server", Func: "device", Dir: control.Cycle},
		},
		{
			spec: "Control+Mod4+i:input.mute!",
			want: Binding{ModMask: ModControl | Mod4, KeyName: "i", Keysym: 'i', Name: "input", Func: "mute", Dir: control.Cycle},
		},
	}

	for _, tc := range tests {
		got, err := Parse(tc.spec)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tc.spec, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.spec, got, tc.want)
		}
	}
}

func TestParseLegacyAliases(t *testing.T) {
	tests := []struct {
		spec     string
		name, fn string
		dir      control.Direction
	}{
		{"Control+Mod1+plus:inc_level", "output", "level", control.Increase},
		{"Control+Mod1+minus:dec_level", "output", "level", control.Decrease},
		{"Control+Mod1+0:cycle_dev", "server", "device", control.Cycle},
	}
	for _, tc := range tests {
		got, err := Parse(tc.spec)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tc.spec, err)
		}
		if got.Name != tc.name || got.Func != tc.fn || got.Dir != tc.dir {
			t.Fatalf("Parse(%q) = %+v", tc.spec, got)
		}
	}
}

func TestParseRejectsBadSpecs(t *testing.T) {
	bad := []string{
		"",                               // nothing at all
		"plus",                           // missing ':'
		"Shift+plus:output.level+",       // Shift is never part of a mask
		"Mod2+plus:output.level+",        // unsupported modifier
		"Control+:output.level+",         // missing key name
		"Control+Nosuchkey:output.level+",// unresolvable key
		"plus:outputlevel+",              // missing '.'
		"plus:output.level",              // missing direction suffix
		"plus:output.level*",             // unknown direction character
		"plus:output.lev.el+",            // trailing garbage
		"plus:.level+",                   // empty name
		"plus:output.+",                  // empty function
		"plus:",                          // empty target
	}
	for _, spec := range bad {
		if _, err := Parse(spec); err == nil {
			t.Fatalf("Parse(%q) unexpectedly succeeded", spec)
		}
	}
}
