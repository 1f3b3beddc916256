// Package dispatch runs the daemon's single event loop: it routes grabbed
// key presses to control edits, mirrors audio-service deltas into the
// registry, reacquires grabs when the keyboard mapping changes, and keeps
// the audio link alive lazily.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ratchov/volkeys/internal/control"
	"github.com/ratchov/volkeys/internal/fsm"
	"github.com/ratchov/volkeys/internal/keybind"
	"github.com/ratchov/volkeys/internal/pamix"
	"github.com/ratchov/volkeys/internal/xgrab"
)

// Display is the display-server boundary the loop consumes.
type Display interface {
	Events() <-chan xgrab.Event
	Resync(bindings []keybind.Binding) error
}

// Transport is the audio-service boundary the loop consumes and writes to.
type Transport interface {
	Events() <-chan pamix.Event
	SetValue(addr control.Addr, value int) error
	Close()
}

// Config wires one Dispatcher. Transport may be nil when the audio service
// was unreachable at startup; Reopen is used to connect lazily on the next
// shortcut. A nil Feedback disables the confirmation tone.
type Config struct {
	Logger    *slog.Logger
	Display   Display
	Table     *keybind.Table
	Transport Transport
	Reopen    func() (Transport, error)
	Feedback  func()
}

// Dispatcher owns the registry and the audio link. All methods run on the
// caller's goroutine; the loop is strictly single-threaded.
type Dispatcher struct {
	logger   *slog.Logger
	display  Display
	table    *keybind.Table
	registry *control.Registry
	link     *link
	feedback func()
}

func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := newLink(cfg.Transport, cfg.Reopen, logger)
	return &Dispatcher{
		logger:   logger,
		display:  cfg.Display,
		table:    cfg.Table,
		registry: control.NewRegistry(l, logger),
		link:     l,
		feedback: cfg.Feedback,
	}
}

// Run processes events until the context is cancelled, the display
// connection closes (both clean shutdowns), or reacquiring grabs fails.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.link.shutdown()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down")
			return nil
		case ev := <-d.display.Events():
			done, err := d.handleDisplayBatch(ev)
			if err != nil || done {
				return err
			}
		case ev := <-d.link.events():
			d.handleTransport(ev)
		}
	}
}

// handleDisplayBatch processes one display event plus everything already
// queued behind it, so an auto-repeat burst is folded into its edits and at
// most one confirmation tone.
func (d *Dispatcher) handleDisplayBatch(first xgrab.Event) (done bool, err error) {
	var edited, remap bool

	ev := first
	for {
		switch e := ev.(type) {
		case xgrab.KeyPress:
			if d.handleKey(e) {
				edited = true
			}
		case xgrab.KeymapChanged:
			remap = true
		case xgrab.HangUp:
			d.logger.Info("display connection closed")
			return true, nil
		}

		more := false
		select {
		case ev = <-d.display.Events():
			more = true
		default:
		}
		if !more {
			break
		}
	}

	if remap {
		if err := d.display.Resync(d.table.Bindings()); err != nil {
			return false, fmt.Errorf("reacquire key grabs: %w", err)
		}
		d.logger.Debug("keyboard mapping changed, grabs reacquired")
	}
	if edited && d.feedback != nil {
		d.feedback()
	}
	return false, nil
}

// handleKey applies every binding matching the pressed key and reports
// whether any control actually changed.
func (d *Dispatcher) handleKey(e xgrab.KeyPress) bool {
	matches := d.table.Match(e.Sym, e.Mods)
	if len(matches) == 0 {
		return false
	}

	if err := d.link.ensure(); err != nil {
		d.logger.Warn("audio service unavailable", "error", err)
		return false
	}
	// Fold any queued control deltas in first so the edit sees the
	// current server state; right after a lazy reconnect this is the
	// whole initial snapshot.
	d.absorb()

	edited := false
	for _, b := range matches {
		d.logger.Debug("shortcut pressed",
			"key", b.KeyName, "control", b.Name+"."+b.Func, "direction", b.Dir.String())
		if d.registry.Apply(b.Name, b.Func, b.Dir) {
			edited = true
		}
	}

	if d.link.takeFailure() {
		d.registry.Clear()
		return false
	}
	return edited
}

// absorb drains queued transport events without blocking.
func (d *Dispatcher) absorb() {
	for {
		select {
		case ev := <-d.link.events():
			d.handleTransport(ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) handleTransport(ev pamix.Event) {
	switch e := ev.(type) {
	case pamix.Added:
		d.registry.Insert(e.Desc, e.Value)
	case pamix.Removed:
		d.registry.Remove(e.Addr)
	case pamix.ValueChanged:
		d.registry.ApplyExternal(e.Addr, e.Value)
	case pamix.HangUp:
		d.link.markDown(errors.New("connection closed"))
		d.link.takeFailure()
		d.registry.Clear()
	}
}

// link tracks the audio-service connection through its up/down/closed
// lifecycle. It is the registry's setter: a failed write takes the link
// down, and the next matching shortcut reopens it.
type link struct {
	logger *slog.Logger
	reopen func() (Transport, error)
	tr     Transport
	state  fsm.State
	failed bool
}

func newLink(tr Transport, reopen func() (Transport, error), logger *slog.Logger) *link {
	state := fsm.StateDown
	if tr != nil {
		state = fsm.StateUp
	}
	return &link{logger: logger, reopen: reopen, tr: tr, state: state}
}

// events returns the transport stream, nil while the link is down so a
// select case on it simply never fires.
func (l *link) events() <-chan pamix.Event {
	if l.tr == nil {
		return nil
	}
	return l.tr.Events()
}

// SetValue implements control.Setter. A write failure means the
// connection is gone; the mirrored state is unusable from that point on.
func (l *link) SetValue(addr control.Addr, value int) error {
	if l.tr == nil {
		return errors.New("audio service not connected")
	}
	err := l.tr.SetValue(addr, value)
	if err != nil {
		l.markDown(err)
	}
	return err
}

func (l *link) markDown(cause error) {
	if l.tr == nil {
		return
	}
	l.logger.Warn("audio service link down", "error", cause)
	next, err := fsm.Transition(l.state, fsm.EventHangup)
	if err != nil {
		l.logger.Debug("link transition rejected", "error", err)
		return
	}
	l.state = next
	l.tr.Close()
	l.tr = nil
	l.failed = true
}

// takeFailure reports a down transition exactly once.
func (l *link) takeFailure() bool {
	failed := l.failed
	l.failed = false
	return failed
}

// ensure reopens the transport if the link is down.
func (l *link) ensure() error {
	if l.tr != nil {
		return nil
	}
	if l.reopen == nil {
		return errors.New("audio service not connected")
	}
	tr, err := l.reopen()
	if err != nil {
		return err
	}
	next, terr := fsm.Transition(l.state, fsm.EventOpened)
	if terr != nil {
		tr.Close()
		return terr
	}
	l.state = next
	l.tr = tr
	l.logger.Info("audio service reconnected")
	return nil
}

func (l *link) shutdown() {
	if l.tr != nil {
		l.tr.Close()
		l.tr = nil
	}
	if next, err := fsm.Transition(l.state, fsm.EventClose); err == nil {
		l.state = next
	}
}
