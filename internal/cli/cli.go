// Package cli parses the volkeys command line.
package cli

import (
	"fmt"
	"strings"
)

// Options is the parsed flag set. BindSpecs are kept in order of
// appearance so later specs override earlier ones per the binding table's
// last-wins rule.
type Options struct {
	Bell      bool     // -a: use the system bell sample for feedback
	BindSpecs []string // -b: add or replace a key binding
	Daemonize bool     // -D: detach and run in the background
	Device    string   // -f: audio server / device identifier
	Silent    bool     // -s: never play the feedback tone
	Verbose   int      // -v: diagnostic verbosity, repeatable
}

// Parse reads getopt-style single-character flags, including clustered
// ones (-sv). Unknown flags and positional arguments are errors; the
// caller prints usage and exits with a failure status.
func Parse(args []string) (Options, error) {
	var opts Options

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			return Options{}, fmt.Errorf("unexpected argument %q", arg)
		}

		flags := arg[1:]
		for j := 0; j < len(flags); j++ {
			switch flags[j] {
			case 'a':
				opts.Bell = true
			case 'D':
				opts.Daemonize = true
			case 's':
				opts.Silent = true
			case 'v':
				opts.Verbose++
			case 'b', 'f':
				value := flags[j+1:]
				if value == "" {
					i++
					if i >= len(args) {
						return Options{}, fmt.Errorf("-%c requires an argument", flags[j])
					}
					value = args[i]
				}
				if flags[j] == 'b' {
					opts.BindSpecs = append(opts.BindSpecs, value)
				} else {
					opts.Device = value
				}
				j = len(flags)
			default:
				return Options{}, fmt.Errorf("unknown flag: -%c", flags[j])
			}
		}
	}

	return opts, nil
}

// Usage is the one-line synopsis printed on bad invocations.
func Usage(binaryName string) string {
	return fmt.Sprintf("usage: %s [-aDsv] [-b binding] [-f device]\n", binaryName)
}

// HelpText expands the synopsis with per-flag descriptions.
func HelpText(binaryName string) string {
	return Usage(binaryName) + `
Flags:
  -a          Use the sound server's bell sample as the feedback tone
  -b BINDING  Add a key binding: [modifier+...]key:name.func{+|-|!}
              (modifiers: Control, Mod1, Mod4)
  -D          Daemonize; implies quiet output
  -f DEVICE   Sound server to connect to (default: system default)
  -s          Suppress the feedback tone
  -v          Increase diagnostic verbosity (repeatable)
`
}
