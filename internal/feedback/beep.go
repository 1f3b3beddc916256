// Package feedback plays the short confirmation tone emitted after a
// shortcut takes effect.
package feedback

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jfreymuth/pulse"
)

const (
	beepRate      = 48000
	beepFrequency = 880
	beepAmplitude = 32767 / 32
)

// beepPCM is a 50ms square wave; quiet by a factor of 32 so the tone is
// audible without being startling at full output level.
var beepPCM = synthesizeBeep()

func synthesizeBeep() []int16 {
	n := beepRate / 20
	half := beepRate / (2 * beepFrequency)
	pcm := make([]int16, n)
	for i := range pcm {
		if (i/half)%2 == 0 {
			pcm[i] = beepAmplitude
		} else {
			pcm[i] = -beepAmplitude
		}
	}
	return pcm
}

// Player emits one confirmation tone per Play call. When a bell source is
// configured it is preferred, with the synthesized tone as fallback.
type Player struct {
	logger *slog.Logger
	bell   func() error
	tone   func() error
}

// New returns a Player targeting the given audio server (empty for the
// default). bell may be nil; when set it is tried before synthesizing.
func New(server string, bell func() error, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Player{
		logger: logger,
		bell:   bell,
		tone:   func() error { return playTone(server) },
	}
}

// Play emits the tone. Failures are logged, not fatal: feedback is
// best-effort and must never take the daemon down.
func (p *Player) Play() {
	if p.bell != nil {
		err := p.bell()
		if err == nil {
			return
		}
		p.logger.Debug("bell sample unavailable, synthesizing", "error", err)
	}
	if err := p.tone(); err != nil {
		p.logger.Warn("play feedback tone", "error", err)
	}
}

// playTone opens a short-lived playback connection, writes the beep, and
// drains it.
func playTone(server string) error {
	opts := []pulse.ClientOption{
		pulse.ClientApplicationName("volkeys"),
	}
	if server != "" {
		opts = append(opts, pulse.ClientServerString(server))
	}
	client, err := pulse.NewClient(opts...)
	if err != nil {
		return fmt.Errorf("connect audio service: %w", err)
	}
	defer client.Close()

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cursor >= len(beepPCM) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, beepPCM[cursor:])
		cursor += n
		if cursor >= len(beepPCM) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(beepRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("volkeys feedback"),
	)
	if err != nil {
		return fmt.Errorf("create playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play feedback stream: %w", err)
	}
	return nil
}
