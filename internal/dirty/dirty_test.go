package dirty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTracker() *Tracker {
	t := NewTracker()
	t.pageSize = 4096
	return t
}

func Test_Tracker_PageAlignment(t *testing.T) {
	tr := newTestTracker()
	tr.Add(100, 200)

	got := tr.Coalesced()
	require.Equal(t, []Range{{Off: 0, Len: 4096}}, got)
}

func Test_Tracker_MergesAdjacentAndOverlapping(t *testing.T) {
	tr := newTestTracker()
	tr.Add(8192, 16)
	tr.Add(10, 8)
	tr.Add(4090, 12) // spans pages 0 and 1
	tr.Add(20000, 8)

	got := tr.Coalesced()
	require.Equal(t, []Range{
		{Off: 0, Len: 3 * 4096},
		{Off: 16384, Len: 4096},
	}, got)
}

func Test_Tracker_IgnoresEmptyRanges(t *testing.T) {
	tr := newTestTracker()
	tr.Add(0, 0)
	tr.Add(64, -1)
	require.Equal(t, 0, tr.Len())
	require.Nil(t, tr.Coalesced())
}

func Test_Tracker_FlushHeapBufferClears(t *testing.T) {
	tr := newTestTracker()
	tr.Add(0, 8)
	require.Len(t, tr.Ranges(), 1)

	// A heap slice is not a mapping; only exercise the empty-data path.
	require.NoError(t, tr.Flush(context.Background(), nil))
	require.Equal(t, 0, tr.Len())
}

func Test_Tracker_FlushHonoursCancel(t *testing.T) {
	tr := newTestTracker()
	tr.Add(0, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.Flush(ctx, make([]byte, 4096))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, tr.Len(), "ranges must survive a cancelled flush")
}
