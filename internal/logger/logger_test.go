package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_InitDisabledDiscards(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Enabled: false, Output: &buf})
	Info("dropped")
	require.Zero(t, buf.Len())
}

func Test_InitTextAndJSON(t *testing.T) {
	defer Init(Options{})

	var buf bytes.Buffer
	Init(Options{Enabled: true, Output: &buf, Level: slog.LevelDebug})
	Debug("slab acquired", "order", 5)
	require.Contains(t, buf.String(), "slab acquired")
	require.Contains(t, buf.String(), "order=5")

	buf.Reset()
	Init(Options{Enabled: true, Output: &buf, Level: slog.LevelWarn, JSON: true})
	Info("below level")
	Warn("out of memory", "need", 64)
	require.NotContains(t, buf.String(), "below level")
	require.Contains(t, buf.String(), `"need":64`)
}

func Test_ParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
	_, ok := ParseLevel("loud")
	require.False(t, ok)
}
