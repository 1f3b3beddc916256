package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{name: "empty", args: nil, want: Options{}},
		{name: "verbose repeat", args: []string{"-v", "-v"}, want: Options{Verbose: 2}},
		{name: "clustered", args: []string{"-sv"}, want: Options{Silent: true, Verbose: 1}},
		{name: "daemon", args: []string{"-D"}, want: Options{Daemonize: true}},
		{name: "bell", args: []string{"-a"}, want: Options{Bell: true}},
		{
			name: "binding separate arg",
			args: []string{"-b", "Control+Mod1+m:output.mute!"},
			want: Options{BindSpecs: []string{"Control+Mod1+m:output.mute!"}},
		},
		{
			name: "binding attached value",
			args: []string{"-bControl+Mod1+m:output.mute!"},
			want: Options{BindSpecs: []string{"Control+Mod1+m:output.mute!"}},
		},
		{
			name: "bindings accumulate in order",
			args: []string{"-b", "first:inc_level", "-b", "second:inc_level"},
			want: Options{BindSpecs: []string{"first:inc_level", "second:inc_level"}},
		},
		{name: "device", args: []string{"-f", "mybox"}, want: Options{Device: "mybox"}},
		{
			name: "everything",
			args: []string{"-aDsvv", "-f", "srv", "-b", "x:cycle_dev"},
			want: Options{Bell: true, Daemonize: true, Silent: true, Verbose: 2, Device: "srv", BindSpecs: []string{"x:cycle_dev"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.args)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	bad := [][]string{
		{"extra"},          // positional argument
		{"-x"},             // unknown flag
		{"-svx"},           // unknown flag inside a cluster
		{"-b"},             // missing value
		{"-f"},             // missing value
		{"-"},              // bare dash
		{"--binding", "x"}, // long options are not a thing
	}
	for _, args := range bad {
		_, err := Parse(args)
		require.Error(t, err, "args %v", args)
	}
}
