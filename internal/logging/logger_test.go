package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerbosityLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		wantInfo  bool
		wantDebug bool
	}{
		{0, false, false},
		{1, true, false},
		{2, true, true},
		{5, true, true},
	}

	for _, tc := range tests {
		var buf bytes.Buffer
		logger := New(tc.verbosity, &buf)

		logger.Warn("warn line")
		logger.Info("info line")
		logger.Debug("debug line")

		out := buf.String()
		require.Contains(t, out, "warn line", "verbosity %d", tc.verbosity)
		require.Equal(t, tc.wantInfo, strings.Contains(out, "info line"), "verbosity %d", tc.verbosity)
		require.Equal(t, tc.wantDebug, strings.Contains(out, "debug line"), "verbosity %d", tc.verbosity)
	}
}
