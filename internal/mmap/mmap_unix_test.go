//go:build linux || darwin

package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_AnonIsZeroedAndWritable(t *testing.T) {
	data, release, err := Anon(2 * os.Getpagesize())
	require.NoError(t, err)
	require.Len(t, data, 2*os.Getpagesize())
	for i, b := range data {
		require.Zerof(t, b, "byte %d not zero", i)
	}
	data[0], data[len(data)-1] = 0xAA, 0xBB
	require.Equal(t, byte(0xAA), data[0])

	require.NoError(t, release())
	require.NoError(t, release(), "second release should be a no-op")
}

func Test_AnonRejectsBadSize(t *testing.T) {
	_, _, err := Anon(0)
	require.Error(t, err)
}

func Test_MapFilePersists(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	path := filepath.Join(t.TempDir(), "arena.bin")
	size := os.Getpagesize()

	data, release, err := MapFile(path, size)
	require.NoError(t, err)
	copy(data, []byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, Sync(data))
	require.NoError(t, release())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, size)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, got[:4])

	again, release2, err := MapFile(path, size)
	require.NoError(t, err)
	defer func() { require.NoError(t, release2()) }()
	require.Equal(t, byte(0xde), again[0])
}
