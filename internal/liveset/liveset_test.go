package liveset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_AddRemoveContains(t *testing.T) {
	s := New()
	require.True(t, s.Add(8))
	require.False(t, s.Add(8), "second add reports already live")
	require.True(t, s.Contains(8))
	require.Equal(t, 1, s.Len())

	require.True(t, s.Remove(8))
	require.False(t, s.Remove(8), "second remove reports not live")
	require.False(t, s.Contains(8))
	require.Equal(t, 0, s.Len())
}

func Test_Ranges(t *testing.T) {
	s := New()
	for _, h := range []uint32{0, 1, 5, 9, 10, 11, 100} {
		s.Add(h)
	}
	require.Equal(t, 3, s.CountRange(0, 9))
	require.Equal(t, 3, s.CountRange(9, 12))
	require.Equal(t, 0, s.CountRange(12, 100))
	require.Equal(t, 1, s.CountRange(100, 101))
	require.Equal(t, 0, s.CountRange(5, 5))

	s.RemoveRange(9, 12)
	require.Equal(t, 4, s.Len())

	var seen []uint32
	s.Each(func(h uint32) bool {
		seen = append(seen, h)
		return true
	})
	require.Equal(t, []uint32{0, 1, 5, 100}, seen)

	s.Clear()
	require.Equal(t, 0, s.Len())
}
