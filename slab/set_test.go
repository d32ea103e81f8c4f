package slab

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/allockit/internal/layout"
	"github.com/joshuapare/allockit/page"
)

func Test_SizeClassTable_Balanced(t *testing.T) {
	tbl, err := newSizeClassTable(ConfigBalanced)
	require.NoError(t, err)

	sizes := tbl.sizes
	require.Equal(t, 16, sizes[0])
	require.Equal(t, 512, sizes[31])
	require.Equal(t, 768, sizes[32])
	require.Equal(t, 16384, sizes[len(sizes)-1])
	for i := 1; i < len(sizes); i++ {
		require.Greater(t, sizes[i], sizes[i-1])
		require.True(t, layout.IsAligned8(sizes[i]), "class %d size %d", i, sizes[i])
	}
	require.Equal(t, "Balanced", tbl.String())
}

func Test_SizeClassTable_ClassOf(t *testing.T) {
	tbl, err := newSizeClassTable(ConfigBalanced)
	require.NoError(t, err)

	require.Equal(t, 0, tbl.classOf(1))
	require.Equal(t, 0, tbl.classOf(16))
	require.Equal(t, 1, tbl.classOf(17))
	require.Equal(t, 31, tbl.classOf(512))
	require.Equal(t, 32, tbl.classOf(513))
	require.Equal(t, tbl.NumClasses()-1, tbl.classOf(16384))
	require.Equal(t, -1, tbl.classOf(16385))

	// Every size maps to the smallest class that holds it.
	for n := 1; n <= 16384; n += 7 {
		c := tbl.classOf(n)
		require.GreaterOrEqual(t, tbl.sizes[c], n)
		if c > 0 {
			require.Less(t, tbl.sizes[c-1], n)
		}
	}
}

func Test_SizeClassTable_Presets(t *testing.T) {
	for _, cfg := range []SizeClassConfig{ConfigFineGrained, ConfigBalanced, ConfigCoarse, DefaultConfig} {
		t.Run(cfg.Name, func(t *testing.T) {
			tbl, err := newSizeClassTable(cfg)
			require.NoError(t, err)
			require.Equal(t, cfg.SmallMin, tbl.sizes[0])
			require.Equal(t, cfg.MediumMax, tbl.sizes[tbl.NumClasses()-1])
		})
	}
}

func Test_SizeClassTable_Invalid(t *testing.T) {
	bad := []SizeClassConfig{
		{Name: "zero", SmallMax: 64, SmallIncrement: 8, MediumMax: 64},
		{Name: "inverted", SmallMin: 64, SmallMax: 8, SmallIncrement: 8, MediumMax: 64},
		{Name: "flat", SmallMin: 8, SmallMax: 64, SmallIncrement: 8, MediumMax: 1024, GrowthFactor: 1},
	}
	for _, cfg := range bad {
		_, err := newSizeClassTable(cfg)
		require.Error(t, err, cfg.Name)
	}
}

func Test_Set_AllocRoutesByClass(t *testing.T) {
	s, err := NewSet(page.NewHeap(0), DefaultConfig)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Teardown()) }()

	r1, b1, err := s.Alloc(10)
	require.NoError(t, err)
	require.Len(t, b1, 10)
	r2, b2, err := s.Alloc(600)
	require.NoError(t, err)
	require.Len(t, b2, 600)

	full, err := s.Bytes(r2)
	require.NoError(t, err)
	require.Len(t, full, 768)

	stats := s.Stats()
	require.Len(t, stats, 2)
	require.Equal(t, 16, stats[0].Size)
	require.Equal(t, 1, stats[0].LiveObjects)
	require.Equal(t, 768, stats[1].Size)

	require.NoError(t, s.Free(r1))
	require.NoError(t, s.Free(r2))
	require.ErrorIs(t, s.Free(r2), ErrDoubleFree)
	require.NoError(t, s.Verify())

	n, err := s.Shrink()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func Test_Set_Errors(t *testing.T) {
	s, err := NewSet(page.NewHeap(0), ConfigCoarse)
	require.NoError(t, err)

	_, _, err = s.Alloc(0)
	require.ErrorIs(t, err, ErrNeedSmall)
	_, _, err = s.Alloc(s.MaxSize() + 1)
	require.ErrorIs(t, err, ErrObjectTooLarge)

	require.ErrorIs(t, s.Free(0), ErrBadRef)
	require.ErrorIs(t, s.Free(Ref(layout.PackSlabRef(3, 0, 24))), ErrBadRef, "class never used")

	_, err = NewSet(nil, ConfigCoarse)
	require.Error(t, err)
}

func Test_Set_RandomWorkload(t *testing.T) {
	prov := page.NewCounting(page.NewHeap(0))
	s, err := NewSet(prov, ConfigFineGrained, WithOrder(2), WithDebugChecks())
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))

	type live struct {
		ref  Ref
		size int
		fill byte
	}
	var objs []live
	for step := range 3000 {
		if rng.Intn(3) > 0 || len(objs) == 0 {
			n := 1 + rng.Intn(2000)
			ref, b, err := s.Alloc(n)
			require.NoError(t, err)
			for i := range b {
				b[i] = byte(step)
			}
			objs = append(objs, live{ref, n, byte(step)})
		} else {
			i := rng.Intn(len(objs))
			o := objs[i]
			b, err := s.Bytes(o.ref)
			require.NoError(t, err)
			for j := range o.size {
				require.Equal(t, o.fill, b[j], "step %d", step)
			}
			require.NoError(t, s.Free(o.ref))
			objs[i] = objs[len(objs)-1]
			objs = objs[:len(objs)-1]
		}
		if step%100 == 0 {
			require.NoError(t, s.Verify(), "step %d", step)
		}
	}

	total := 0
	for _, cs := range s.Stats() {
		total += cs.LiveObjects
	}
	require.Equal(t, len(objs), total)
	require.NoError(t, s.Teardown())
	require.Equal(t, prov.Acquires(), prov.Releases())
}
