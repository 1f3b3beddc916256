// Package app wires the pieces into the resident daemon: flag and config
// parsing, logging, the display and audio connections, the binding table,
// and the event loop.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/ratchov/volkeys/internal/cli"
	"github.com/ratchov/volkeys/internal/config"
	"github.com/ratchov/volkeys/internal/dispatch"
	"github.com/ratchov/volkeys/internal/feedback"
	"github.com/ratchov/volkeys/internal/keybind"
	"github.com/ratchov/volkeys/internal/logging"
	"github.com/ratchov/volkeys/internal/pamix"
	"github.com/ratchov/volkeys/internal/version"
	"github.com/ratchov/volkeys/internal/xgrab"
)

// daemonEnv marks the re-executed background child so it does not detach
// again.
const daemonEnv = "VOLKEYS_DAEMON"

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	opts, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		fmt.Fprint(r.Stderr, cli.Usage("volkeys"))
		return 1
	}

	if opts.Daemonize && os.Getenv(daemonEnv) == "" {
		if err := detach(args); err != nil {
			fmt.Fprintf(r.Stderr, "error: daemonize: %v\n", err)
			return 1
		}
		return 0
	}

	logger := r.Logger
	if logger == nil {
		logger = logging.New(opts.Verbose, r.Stderr)
	}

	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if loaded.Exists {
		logger.Debug("config loaded", "path", loaded.Path)
	}

	device := loaded.Config.Device
	if opts.Device != "" {
		device = opts.Device
	}
	silent := opts.Silent || loaded.Config.Silent

	// Defaults first, then the config file, then -b flags; the table's
	// last-wins rule makes each layer override the previous one.
	table := keybind.NewTable()
	for _, spec := range loaded.Config.Binds {
		binding, err := keybind.Parse(spec)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %s: %v\n", loaded.Path, err)
			return 1
		}
		table.Bind(binding)
	}
	for _, spec := range opts.BindSpecs {
		binding, err := keybind.Parse(spec)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			fmt.Fprint(r.Stderr, cli.Usage("volkeys"))
			return 1
		}
		table.Bind(binding)
	}

	logger.Info("starting", "version", version.String())

	display, err := xgrab.Open("", logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer display.Close()

	if err := display.Grab(table.Bindings()); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	// The audio service is optional at startup; the dispatcher connects
	// lazily when the first shortcut needs it.
	reopen := func() (dispatch.Transport, error) {
		client, err := pamix.Open(device, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	var transport dispatch.Transport
	if client, err := pamix.Open(device, logger); err != nil {
		logger.Warn("audio service unavailable, will retry on first shortcut", "error", err)
	} else {
		transport = client
	}

	var notify func()
	if !silent {
		var bell func() error
		if opts.Bell {
			bell = func() error { return pamix.PlayBellSample(device) }
		}
		notify = feedback.New(device, bell, logger).Play
	}

	d := dispatch.New(dispatch.Config{
		Logger:    logger,
		Display:   display,
		Table:     table,
		Transport: transport,
		Reopen:    reopen,
		Feedback:  notify,
	})
	if err := d.Run(ctx); err != nil {
		logger.Error("event loop failed", "error", err)
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// detach re-executes the binary in a new session with the daemon marker
// set, leaving the foreground process free to exit.
func detach(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(), daemonEnv+"=1")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd.Start()
}
