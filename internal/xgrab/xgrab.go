// Package xgrab owns the display-server connection: it registers global
// key intercepts for the configured bindings, re-acquires them when the
// keyboard mapping changes, and turns raw key events into a stream of
// resolved (keycode, modifiers, keysym) events for the dispatcher.
package xgrab

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/ratchov/volkeys/internal/keybind"
)

// Server is the display-server boundary. Grab, Ungrab, Resync and Close
// must be called from the dispatcher thread; the internal event pump only
// reads the keymap snapshot under the lock.
type Server struct {
	logger *slog.Logger
	conn   *xgb.Conn
	roots  []xproto.Window
	events chan Event

	mu     sync.Mutex
	keymap keymapTable
}

// Open connects to the display server (empty display means $DISPLAY),
// selects key events on every screen's root window, and starts the event
// pump.
func Open(display string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("open display: %w", err)
	}

	setup := xproto.Setup(conn)
	roots := make([]xproto.Window, 0, len(setup.Roots))
	for _, screen := range setup.Roots {
		roots = append(roots, screen.Root)
		xproto.ChangeWindowAttributes(conn, screen.Root,
			xproto.CwEventMask, []uint32{xproto.EventMaskKeyPress})
	}

	keymap, err := loadKeymap(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	s := &Server{
		logger: logger,
		conn:   conn,
		roots:  roots,
		events: make(chan Event, 64),
		keymap: keymap,
	}
	go s.pump()
	return s, nil
}

// Events returns the inbound display event stream.
func (s *Server) Events() <-chan Event {
	return s.events
}

// Grab acquires a global intercept for every binding: the binding's
// keycode is grabbed under its modifier mask combined with every subset
// of the remaining modifier bits, so the shortcut fires regardless of
// lock and other irrelevant modifier state. A grab already held by
// another client is a fatal conflict reported with the offending key
// name.
func (s *Server) Grab(bindings []keybind.Binding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type pending struct {
		cookie xproto.GrabKeyCookie
		name   string
	}
	var cookies []pending

	for _, b := range bindings {
		code := s.keymap.codeFor(b.Keysym)
		if code == 0 {
			return fmt.Errorf("%s: couldn't find key code for key", b.KeyName)
		}
		s.logger.Debug("grabbing key",
			"key", b.KeyName, "keycode", code, "modifiers", b.ModMask)

		for extra := uint16(0); extra <= 0xff; extra++ {
			if extra&b.ModMask != 0 {
				continue
			}
			for _, root := range s.roots {
				cookie := xproto.GrabKeyChecked(s.conn, true, root,
					extra|b.ModMask, code,
					xproto.GrabModeAsync, xproto.GrabModeAsync)
				cookies = append(cookies, pending{cookie, b.KeyName})
			}
		}
	}

	for _, p := range cookies {
		if err := p.cookie.Check(); err != nil {
			switch err.(type) {
			case xproto.AccessError, *xproto.AccessError:
				return fmt.Errorf("key %q is already grabbed by another program", p.name)
			}
			return fmt.Errorf("grab key %q: %w", p.name, err)
		}
	}
	return nil
}

// Ungrab releases every intercept held by this instance.
func (s *Server) Ungrab() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ungrabLocked()
}

func (s *Server) ungrabLocked() {
	for _, root := range s.roots {
		xproto.UngrabKey(s.conn, xproto.Keycode(0), root, xproto.ModMaskAny)
	}
}

// Resync releases all grabs, reloads the keyboard mapping, and
// re-acquires the bindings against the new physical layout. Called on
// keymap-change notifications.
func (s *Server) Resync(bindings []keybind.Binding) error {
	s.mu.Lock()
	s.ungrabLocked()
	keymap, err := loadKeymap(s.conn)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.keymap = keymap
	s.mu.Unlock()

	return s.Grab(bindings)
}

// Close shuts the display connection down; the pump then emits HangUp.
func (s *Server) Close() {
	s.conn.Close()
}

// pump converts raw display traffic into Events until the connection
// goes away.
func (s *Server) pump() {
	for {
		ev, xerr := s.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			s.events <- HangUp{}
			return
		}
		if xerr != nil {
			// Async errors from unchecked requests (e.g. a racing
			// ungrab) are harmless.
			s.logger.Debug("display async error", "error", xerr.Error())
			continue
		}

		switch e := ev.(type) {
		case xproto.KeyPressEvent:
			s.events <- KeyPress{
				Code: uint8(e.Detail),
				Mods: e.State,
				Sym:  s.resolve(e.Detail, e.State),
			}
		case xproto.MappingNotifyEvent:
			if e.Request == xproto.MappingKeyboard {
				s.events <- KeymapChanged{}
			}
		}
	}
}

// resolve maps a key event to its keysym using the event's shift state,
// mirroring the server's two-column core lookup.
func (s *Server) resolve(code xproto.Keycode, state uint16) keybind.Keysym {
	col := 0
	if state&xproto.ModMaskShift != 0 {
		col = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keymap.symAt(code, col)
}
