package slab

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/allockit/page"
)

func Test_SafeCache_Concurrent(t *testing.T) {
	c, err := NewSafe(page.NewMmap(0), 96, WithOrder(2), WithDebugChecks())
	require.NoError(t, err)

	const workers, rounds = 8, 500
	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			refs := make([]Ref, 0, 16)
			for i := range rounds {
				ref, obj, err := c.Alloc()
				if err != nil {
					return err
				}
				obj[0] = byte(w)
				refs = append(refs, ref)
				if i%3 == 2 {
					for _, r := range refs[:2] {
						if err := c.Free(r); err != nil {
							return err
						}
					}
					refs = refs[2:]
				}
			}
			for _, r := range refs {
				b, err := c.Bytes(r)
				if err != nil {
					return err
				}
				if b[0] != byte(w) {
					return ErrBadRef
				}
				if err := c.Free(r); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	st := c.Stats()
	require.Zero(t, st.LiveObjects)
	require.Equal(t, workers*rounds, st.AllocCalls)
	require.NoError(t, c.Verify())

	_, err = c.Shrink()
	require.NoError(t, err)
	require.Zero(t, c.Stats().Slabs)
	require.NoError(t, c.Teardown())
	require.NoError(t, c.Setup(32))
}
