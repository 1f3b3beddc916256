package feedback

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBeepShape(t *testing.T) {
	require.Len(t, beepPCM, beepRate/20, "50ms of samples")

	for i, s := range beepPCM {
		if s != beepAmplitude && s != -beepAmplitude {
			t.Fatalf("sample %d = %d, want a square wave", i, s)
		}
	}

	// The wave must actually alternate.
	half := beepRate / (2 * beepFrequency)
	require.Equal(t, int16(beepAmplitude), beepPCM[0])
	require.Equal(t, int16(-beepAmplitude), beepPCM[half])
}

func TestPlayPrefersBell(t *testing.T) {
	toneCalls := 0
	p := &Player{
		logger: discard(),
		bell:   func() error { return nil },
		tone:   func() error { toneCalls++; return nil },
	}
	p.Play()
	require.Zero(t, toneCalls)
}

func TestPlayFallsBackToTone(t *testing.T) {
	toneCalls := 0
	p := &Player{
		logger: discard(),
		bell:   func() error { return errors.New("no such sample") },
		tone:   func() error { toneCalls++; return nil },
	}
	p.Play()
	require.Equal(t, 1, toneCalls)
}

func TestPlaySynthesizesWithoutBell(t *testing.T) {
	toneCalls := 0
	p := &Player{
		logger: discard(),
		tone:   func() error { toneCalls++; return nil },
	}
	p.Play()
	require.Equal(t, 1, toneCalls)
}
