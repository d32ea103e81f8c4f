package slab

import "github.com/joshuapare/allockit/internal/layout"

// Stats is a snapshot of a cache's configuration and occupancy.
type Stats struct {
	ObjectSize int // Payload bytes per object
	SlotSize   int // Bytes per object including its header
	Capacity   int // Objects per slab
	Order      int // Page-count exponent per slab
	SlabBytes  int // Bytes per slab

	Slabs        int // Slabs currently held
	FreeSlabs    int
	PartialSlabs int
	FullSlabs    int

	LiveObjects int // Objects currently allocated
	FreeObjects int // Free objects across all held slabs

	AllocCalls      int // Cumulative Alloc calls
	FreeCalls       int // Cumulative Free calls
	SlabsAcquired   int // Extents obtained from the provider
	SlabsReleased   int // Extents returned to the provider
	AcquireFailures int // Provider refusals
}

// Utilization returns the fraction of held object slots that are allocated.
func (s Stats) Utilization() float64 {
	total := s.LiveObjects + s.FreeObjects
	if total == 0 {
		return 0
	}
	return float64(s.LiveObjects) / float64(total)
}

// SlabInfo describes one held slab.
type SlabInfo struct {
	Handle    int
	State     State
	Remaining int // Free objects
}

// Stats returns a snapshot of the cache.
func (c *Cache) Stats() Stats {
	return Stats{
		ObjectSize:      c.objectSize,
		SlotSize:        c.slot,
		Capacity:        c.capacity,
		Order:           c.order,
		SlabBytes:       c.slabBytes,
		Slabs:           c.slabs,
		FreeSlabs:       c.lists[StateFree].Len(),
		PartialSlabs:    c.lists[StatePartial].Len(),
		FullSlabs:       c.lists[StateFull].Len(),
		LiveObjects:     c.liveObjects,
		FreeObjects:     c.capacity*c.slabs - c.liveObjects,
		AllocCalls:      c.stats.allocCalls,
		FreeCalls:       c.stats.freeCalls,
		SlabsAcquired:   c.stats.slabsAcquired,
		SlabsReleased:   c.stats.slabsReleased,
		AcquireFailures: c.stats.acquireFailures,
	}
}

// SlabInfos lists every held slab, grouped by list (free, partial, full)
// and in list order within each group.
func (c *Cache) SlabInfos() []SlabInfo {
	out := make([]SlabInfo, 0, c.slabs)
	for _, st := range []State{StateFree, StatePartial, StateFull} {
		c.lists[st].Each(&c.table, func(h int) bool {
			out = append(out, SlabInfo{Handle: h, State: st, Remaining: c.table.descs[h].remaining})
			return true
		})
	}
	return out
}

// LiveRefs returns every allocated ref. It requires WithDebugChecks and
// returns nil otherwise.
func (c *Cache) LiveRefs() []Ref {
	if c.live == nil {
		return nil
	}
	out := make([]Ref, 0, c.live.Len())
	c.live.Each(func(id uint32) bool {
		h, idx := int(id)/c.capacity, int(id)%c.capacity
		payload := layout.ObjectOffset(idx, c.slot) + layout.ObjectHeaderSize
		out = append(out, Ref(layout.PackSlabRef(c.cfg.tag, h, payload)))
		return true
	})
	return out
}
