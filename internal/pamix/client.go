// Package pamix is the audio-service boundary: it mirrors the PulseAudio
// sinks, sources, playback streams and default-device choice into the
// control model, streams server-side changes as deltas, and writes control
// edits back as native protocol commands.
package pamix

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/jfreymuth/pulse/proto"

	"github.com/ratchov/volkeys/internal/control"
)

// Subscription mask bits of the native protocol.
const (
	maskSink      = 0x0001
	maskSource    = 0x0002
	maskSinkInput = 0x0004
	maskServer    = 0x0080
)

const cookieSize = 256

// Client is one connection to the audio service. The event stream is
// produced by an internal goroutine; SetValue and Close may be called
// from the dispatcher thread.
type Client struct {
	logger *slog.Logger
	client *proto.Client
	conn   net.Conn
	events chan Event
	raw    chan struct{}
	quit   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	mirror map[control.Addr]entry
}

// Open connects to the audio service (empty server means the usual
// environment-driven lookup), authenticates, subscribes to change
// notifications, and starts mirroring. The initial control snapshot
// arrives as Added events on the stream.
func Open(server string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client, conn, err := connect(server)
	if err != nil {
		return nil, err
	}

	c := &Client{
		logger: logger,
		client: client,
		conn:   conn,
		raw:    make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}

	// Change notifications only flag that something happened; the pump
	// requeries and diffs, so bursts collapse into a single token.
	client.Callback = func(val interface{}) {
		if _, ok := val.(*proto.SubscribeEvent); !ok {
			return
		}
		select {
		case c.raw <- struct{}{}:
		default:
		}
	}

	err = client.Request(&proto.Subscribe{
		Mask: maskSink | maskSource | maskSinkInput | maskServer,
	}, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	// Take the first snapshot synchronously so the full control set is
	// already queued as Added events when Open returns; the caller can
	// drain it before acting on a shortcut.
	fresh, err := c.query()
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.mirror = fresh
	c.events = make(chan Event, len(fresh)+64)
	for _, ev := range diffEntries(nil, fresh) {
		c.events <- ev
	}

	go c.pump()
	return c, nil
}

// Events returns the inbound control delta stream.
func (c *Client) Events() <-chan Event {
	return c.events
}

// SetValue writes one control value back to the audio service. It
// implements control.Setter.
func (c *Client) SetValue(addr control.Addr, value int) error {
	fac, idx, slot := splitAddr(addr)

	c.mu.Lock()
	e, ok := c.mirror[addr]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("set %#x: no such control", uint32(addr))
	}

	switch {
	case fac == facSink && slot == slotLevel:
		return c.command(&proto.SetSinkVolume{
			SinkIndex:      idx,
			ChannelVolumes: flatVolume[proto.ChannelVolumes](e.channels, value),
		})
	case fac == facSink && slot == slotMute:
		return c.command(&proto.SetSinkMute{SinkIndex: idx, Mute: value != 0})
	case fac == facSource && slot == slotLevel:
		return c.command(&proto.SetSourceVolume{
			SourceIndex:    idx,
			ChannelVolumes: flatVolume[proto.ChannelVolumes](e.channels, value),
		})
	case fac == facSource && slot == slotMute:
		return c.command(&proto.SetSourceMute{SourceIndex: idx, Mute: value != 0})
	case fac == facSinkInput && slot == slotLevel:
		return c.command(&proto.SetSinkInputVolume{
			SinkInputIndex: idx,
			ChannelVolumes: flatVolume[proto.ChannelVolumes](e.channels, value),
		})
	case fac == facSinkInput && slot == slotMute:
		return c.command(&proto.SetSinkInputMute{SinkInputIndex: idx, Mute: value != 0})
	case fac == facDevice && slot == slotSelect:
		if value == 0 {
			// Selectors are deactivated by activating a sibling.
			return nil
		}
		return c.command(&proto.SetDefaultSink{SinkName: e.object})
	}
	return fmt.Errorf("set %#x: unwritable control", uint32(addr))
}

func (c *Client) command(req proto.RequestArgs) error {
	return c.client.Request(req, nil)
}

// PlayBellSample asks the server to play its cached bell sample on the
// default output, over a short-lived connection of its own so it works
// whether or not the mirror link is up.
func PlayBellSample(server string) error {
	client, conn, err := connect(server)
	if err != nil {
		return err
	}
	defer conn.Close()

	err = client.Request(&proto.PlaySample{
		SinkIndex: anyIndex,
		Volume:    volumeNorm,
		Name:      "bell-window-system",
	}, nil)
	if err != nil {
		return fmt.Errorf("play bell sample: %w", err)
	}
	return nil
}

// connect dials the audio service and runs the handshake: protocol
// version negotiation, cookie authentication, client identification.
func connect(server string) (*proto.Client, net.Conn, error) {
	client, conn, err := proto.Connect(server)
	if err != nil {
		return nil, nil, fmt.Errorf("connect audio service: %w", err)
	}

	var auth proto.AuthReply
	err = client.Request(&proto.Auth{
		Version: client.Version(),
		Cookie:  authCookie(),
	}, &auth)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}
	client.SetVersion(auth.Version)

	err = client.Request(&proto.SetClientName{Props: proto.PropList{
		"application.name": proto.PropListString("volkeys"),
	}}, &proto.SetClientNameReply{})
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("set client name: %w", err)
	}
	return client, conn, nil
}

// Close tears the connection down; the pump then emits HangUp.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.quit)
		c.conn.Close()
	})
}

// pump mirrors the server: one full snapshot up front, then one
// requery-and-diff per burst of change notifications. A failing requery
// means the link is gone.
func (c *Client) pump() {
	for {
		select {
		case <-c.quit:
			select {
			case c.events <- HangUp{}:
			default:
			}
			return
		case <-c.raw:
			if err := c.resync(); err != nil {
				c.hangup(err)
				return
			}
		}
	}
}

func (c *Client) hangup(err error) {
	c.logger.Warn("audio service connection lost", "error", err)
	c.conn.Close()
	select {
	case c.events <- HangUp{}:
	case <-c.quit:
	}
}

// resync requeries the full server state and emits the deltas against the
// previous snapshot.
func (c *Client) resync() error {
	fresh, err := c.query()
	if err != nil {
		return err
	}

	c.mu.Lock()
	deltas := diffEntries(c.mirror, fresh)
	c.mirror = fresh
	c.mu.Unlock()

	for _, ev := range deltas {
		select {
		case c.events <- ev:
		case <-c.quit:
			return nil
		}
	}
	return nil
}

// query fetches one full server snapshot.
func (c *Client) query() (map[control.Addr]entry, error) {
	var (
		server  proto.GetServerInfoReply
		sinks   proto.GetSinkInfoListReply
		sources proto.GetSourceInfoListReply
		streams proto.GetSinkInputInfoListReply
	)
	if err := c.client.Request(&proto.GetServerInfo{}, &server); err != nil {
		return nil, fmt.Errorf("query server info: %w", err)
	}
	if err := c.client.Request(&proto.GetSinkInfoList{}, &sinks); err != nil {
		return nil, fmt.Errorf("query sinks: %w", err)
	}
	if err := c.client.Request(&proto.GetSourceInfoList{}, &sources); err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	if err := c.client.Request(&proto.GetSinkInputInfoList{}, &streams); err != nil {
		return nil, fmt.Errorf("query playback streams: %w", err)
	}
	return buildEntries(&server, sinks, sources, streams), nil
}

// authCookie loads the user's authentication cookie; a zeroed cookie is
// sent when none is found, which the server accepts for same-user socket
// connections.
func authCookie() []byte {
	home, err := os.UserHomeDir()
	if err != nil {
		return make([]byte, cookieSize)
	}
	paths := []string{
		filepath.Join(home, ".config", "pulse", "cookie"),
		filepath.Join(home, ".pulse-cookie"),
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths[0] = filepath.Join(xdg, "pulse", "cookie")
	}
	for _, path := range paths {
		if cookie, err := os.ReadFile(path); err == nil {
			return cookie
		}
	}
	return make([]byte, cookieSize)
}
