package slab

import (
	"fmt"

	"github.com/joshuapare/allockit/internal/layout"
	"github.com/joshuapare/allockit/internal/verify"
)

// Verify walks every slab and checks the cache's structural invariants:
//   - each list is well linked and every member is in the state of that list
//   - a slab's state matches its free-object count
//   - the in-band slab header names the slab
//   - the free chain has exactly remaining entries, all marked free
//   - busy objects plus remaining equals capacity
//   - the live-object count equals the sum of busy objects
//
// With WithDebugChecks the live bitmap is matched against each slab as well.
// The first violation is returned as a *verify.ValidationError.
func (c *Cache) Verify() error {
	listed := 0
	for _, st := range []State{StateFree, StatePartial, StateFull} {
		if err := c.lists[st].Check(&c.table, len(c.table.descs)+1); err != nil {
			return &verify.ValidationError{
				Type:    "SlabList",
				Message: fmt.Sprintf("%s list: %v", st, err),
				Offset:  -1,
			}
		}
		listed += c.lists[st].Len()
	}
	if listed != c.slabs {
		return verify.Errorf("SlabList", -1, "%d slabs on lists, %d held", listed, c.slabs)
	}

	busyTotal := 0
	var failure error
	for _, st := range []State{StateFree, StatePartial, StateFull} {
		c.lists[st].Each(&c.table, func(h int) bool {
			busy, err := c.verifySlab(h, st)
			if err != nil {
				failure = err
				return false
			}
			busyTotal += busy
			return true
		})
		if failure != nil {
			return failure
		}
	}

	if busyTotal != c.liveObjects {
		return verify.Errorf("ObjectCount", -1, "%d busy objects, live count is %d", busyTotal, c.liveObjects)
	}
	if c.live != nil && c.live.Len() != c.liveObjects {
		return verify.Errorf("LiveSet", -1, "%d tracked objects, live count is %d", c.live.Len(), c.liveObjects)
	}
	return nil
}

// verifySlab checks one slab on list st and returns its busy object count.
func (c *Cache) verifySlab(h int, st State) (int, error) {
	d := &c.table.descs[h]
	if !d.inUse {
		return 0, verify.Errorf("SlabList", h, "released slab %d is on the %s list", h, st)
	}
	if d.state != st {
		return 0, verify.Errorf("SlabState", h, "slab %d records state %s but is on the %s list", h, d.state, st)
	}
	if want := c.stateFor(d.remaining); want != st {
		return 0, verify.Errorf("SlabState", h, "slab %d has %d of %d objects free but is %s",
			h, d.remaining, c.capacity, st).With("want", want.String())
	}

	hdr := layout.ReadSlabHeader(d.extent)
	if hdr.Magic != layout.SlabMagic || int(hdr.Handle) != h ||
		int(hdr.Capacity) != c.capacity || hdr.Tag != uint32(c.cfg.tag) {
		return 0, verify.Errorf("SlabHeader", h, "slab %d header does not match", h).
			With("magic", hdr.Magic).With("handle", hdr.Handle).
			With("capacity", hdr.Capacity).With("tag", hdr.Tag)
	}

	// Walk the free chain, bounded by capacity.
	seen := make([]bool, c.capacity)
	free := 0
	for idx := d.freeHead; idx != -1; {
		if idx < 0 || idx >= c.capacity {
			return 0, verify.Errorf("FreeChain", h, "slab %d free chain reaches index %d", h, idx)
		}
		if seen[idx] {
			return 0, verify.Errorf("FreeChain", h, "slab %d free chain revisits index %d", h, idx)
		}
		seen[idx] = true
		free++
		off := layout.ObjectOffset(idx, c.slot)
		if int(layout.ReadObjectOwner(d.extent, off)) != h {
			return 0, verify.Errorf("ObjectHeader", off, "slab %d object %d has owner %d",
				h, idx, layout.ReadObjectOwner(d.extent, off))
		}
		link := layout.ReadObjectLink(d.extent, off)
		if link == layout.BusyLink {
			return 0, verify.Errorf("FreeChain", off, "slab %d object %d is on the free chain but marked busy", h, idx)
		}
		idx = linkIndex(link)
	}
	if free != d.remaining {
		return 0, verify.Errorf("FreeChain", h, "slab %d free chain has %d objects, remaining is %d", h, free, d.remaining)
	}

	busy := 0
	for idx := range c.capacity {
		if seen[idx] {
			continue
		}
		off := layout.ObjectOffset(idx, c.slot)
		if layout.ReadObjectLink(d.extent, off) != layout.BusyLink {
			return 0, verify.Errorf("ObjectHeader", off, "slab %d object %d is off the free chain but not busy", h, idx)
		}
		if int(layout.ReadObjectOwner(d.extent, off)) != h {
			return 0, verify.Errorf("ObjectHeader", off, "slab %d object %d has owner %d",
				h, idx, layout.ReadObjectOwner(d.extent, off))
		}
		if c.live != nil && !c.live.Contains(c.objectID(h, idx)) {
			return 0, verify.Errorf("LiveSet", off, "slab %d object %d is busy but not tracked", h, idx)
		}
		busy++
	}
	if busy+d.remaining != c.capacity {
		return 0, verify.Errorf("ObjectCount", h, "slab %d: %d busy + %d free != capacity %d",
			h, busy, d.remaining, c.capacity)
	}
	return busy, nil
}
