package slab

import (
	"errors"
	"fmt"

	"github.com/joshuapare/allockit/internal/dlist"
	"github.com/joshuapare/allockit/internal/layout"
	"github.com/joshuapare/allockit/internal/liveset"
	"github.com/joshuapare/allockit/page"
)

// Ref names an allocated object. It packs the cache tag, the slab handle and
// the payload offset inside the slab extent. The zero Ref is never valid.
type Ref uint64

// State is the occupancy class of a slab.
type State uint8

const (
	// StateFree: every object in the slab is free.
	StateFree State = iota
	// StatePartial: some, but not all, objects are allocated.
	StatePartial
	// StateFull: every object is allocated.
	StateFull

	numStates = 3
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StatePartial:
		return "partial"
	case StateFull:
		return "full"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// slabDesc is the out-of-band descriptor of one slab. Descriptors live in a
// table indexed by slab handle; list links are handles into the same table.
type slabDesc struct {
	extent    []byte // as returned by the provider
	remaining int    // free objects
	freeHead  int    // first free object index, or -1
	prev      int
	next      int
	state     State
	inUse     bool
}

// slabTable implements dlist.Links over the descriptor table.
type slabTable struct {
	descs []slabDesc
}

func (t *slabTable) Next(h int) int      { return t.descs[h].next }
func (t *slabTable) Prev(h int) int      { return t.descs[h].prev }
func (t *slabTable) SetNext(h, next int) { t.descs[h].next = next }
func (t *slabTable) SetPrev(h, prev int) { t.descs[h].prev = prev }

// counters holds cumulative call statistics.
type counters struct {
	allocCalls      int
	freeCalls       int
	slabsAcquired   int
	slabsReleased   int
	acquireFailures int
}

// Cache is a pool of equal-sized objects carved from slabs.
//
// Every slab sits on exactly one of three lists, chosen by how many free
// objects it has. Alloc serves from a partial slab first, then a free slab,
// and only then asks the provider for a new one. Each Alloc or Free moves a
// slab between lists at most once, with one O(1) detach and one O(1) attach.
//
// Cache is NOT thread-safe. Wrap it in a SafeCache for concurrent use.
type Cache struct {
	provider page.Provider
	cfg      config

	objectSize int
	slot       int // object header + payload, aligned
	order      int
	slabBytes  int
	capacity   int

	table slabTable
	spare []int // recycled handles
	slabs int
	lists [numStates]dlist.List

	liveObjects int
	live        *liveset.Set // debug only
	stats       counters
}

// New creates a cache for objects of objectSize bytes backed by provider.
func New(provider page.Provider, objectSize int, opts ...Option) (*Cache, error) {
	if provider == nil {
		return nil, errors.New("slab: nil page provider")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &Cache{provider: provider, cfg: cfg}
	if err := c.Setup(objectSize); err != nil {
		return nil, err
	}
	return c, nil
}

// Setup (re)configures the cache for objects of objectSize bytes. The cache
// must hold no slabs: Setup is valid on a new cache or after Teardown.
func (c *Cache) Setup(objectSize int) error {
	if c.slabs > 0 {
		return ErrNotEmpty
	}
	if objectSize <= 0 {
		return ErrNeedSmall
	}
	if c.cfg.order < 0 || c.cfg.order > page.MaxOrder {
		return fmt.Errorf("%w: %d", ErrBadOrder, c.cfg.order)
	}

	slot := layout.ObjectSlot(objectSize)
	order := c.cfg.order
	for {
		slabBytes := c.provider.PageSize() << order
		if slabBytes > layout.MaxSlabBytes || order > page.MaxOrder {
			return fmt.Errorf("%w: %d-byte objects need slabs over %d bytes",
				ErrObjectTooLarge, objectSize, layout.MaxSlabBytes)
		}
		if layout.SlabCapacity(slabBytes, slot) >= 1 {
			c.slabBytes = slabBytes
			break
		}
		order++
	}

	c.objectSize = objectSize
	c.slot = slot
	c.order = order
	c.capacity = layout.SlabCapacity(c.slabBytes, slot)
	c.table.descs = c.table.descs[:0]
	c.spare = c.spare[:0]
	for i := range c.lists {
		c.lists[i].Init()
	}
	c.liveObjects = 0
	c.stats = counters{}
	c.live = nil
	if c.cfg.debug {
		c.live = liveset.New()
	}

	if order != c.cfg.order {
		c.cfg.log().Debug("slab order raised to fit object",
			"object_size", objectSize, "configured", c.cfg.order, "order", order)
	}
	return nil
}

// Alloc hands out one object. The returned slice is the object payload,
// exactly ObjectSize bytes; its contents are whatever the previous owner
// left there.
func (c *Cache) Alloc() (Ref, []byte, error) {
	c.stats.allocCalls++

	h := c.lists[StatePartial].Front()
	if h == dlist.Nil {
		h = c.lists[StateFree].Front()
	}
	if h == dlist.Nil {
		var err error
		if h, err = c.grow(); err != nil {
			return 0, nil, err
		}
	} else {
		c.detach(h)
	}

	d := &c.table.descs[h]
	idx := d.freeHead
	hdr := layout.ObjectOffset(idx, c.slot)
	d.freeHead = linkIndex(layout.ReadObjectLink(d.extent, hdr))
	layout.PutObjectHeader(d.extent, hdr, uint32(h), layout.BusyLink)
	d.remaining--

	c.attach(h, c.stateFor(d.remaining))

	c.liveObjects++
	if c.live != nil {
		c.live.Add(c.objectID(h, idx))
	}

	payload := hdr + layout.ObjectHeaderSize
	end := payload + c.objectSize
	return Ref(layout.PackSlabRef(c.cfg.tag, h, payload)), d.extent[payload:end:end], nil
}

// Free returns an object to its slab.
//
// ref must come from Alloc on this cache and must not have been freed since.
// Structural mismatches (wrong cache tag, unknown slab, offset not on an
// object boundary, owner header not naming the slab) are reported as
// ErrBadRef, and an object already on the free list as ErrDoubleFree. A
// stale ref to an object that has since been handed out again cannot be
// told apart from a valid one.
func (c *Cache) Free(ref Ref) error {
	c.stats.freeCalls++

	h, hdr, err := c.locate(ref)
	if err != nil {
		return err
	}
	d := &c.table.descs[h]
	if layout.ReadObjectLink(d.extent, hdr) != layout.BusyLink {
		return fmt.Errorf("%w: ref 0x%X", ErrDoubleFree, uint64(ref))
	}
	idx, _ := layout.ObjectIndex(hdr, c.slot)
	if c.live != nil && !c.live.Remove(c.objectID(h, idx)) {
		return fmt.Errorf("%w: ref 0x%X not live", ErrDoubleFree, uint64(ref))
	}

	c.detach(h)
	layout.PutObjectLink(d.extent, hdr, indexLink(d.freeHead))
	d.freeHead = idx
	d.remaining++
	c.liveObjects--

	c.attach(h, c.stateFor(d.remaining))
	return nil
}

// Bytes returns the payload of an allocated object.
func (c *Cache) Bytes(ref Ref) ([]byte, error) {
	h, hdr, err := c.locate(ref)
	if err != nil {
		return nil, err
	}
	d := &c.table.descs[h]
	if layout.ReadObjectLink(d.extent, hdr) != layout.BusyLink {
		return nil, fmt.Errorf("%w: ref 0x%X is free", ErrBadRef, uint64(ref))
	}
	payload := hdr + layout.ObjectHeaderSize
	end := payload + c.objectSize
	return d.extent[payload:end:end], nil
}

// Shrink returns every fully idle slab to the provider and reports how
// many were released. Partial and full slabs are untouched. Provider
// errors are collected; the slabs are dropped from the cache regardless.
func (c *Cache) Shrink() (int, error) {
	n, err := c.releaseList(StateFree)
	if n > 0 {
		c.cfg.log().Debug("slab cache shrunk", "object_size", c.objectSize, "released", n, "slabs", c.slabs)
	}
	return n, err
}

// Teardown returns every slab to the provider. The cache is left empty and
// may be reconfigured with Setup. Objects still allocated become invalid.
func (c *Cache) Teardown() error {
	if c.liveObjects > 0 {
		c.cfg.log().Warn("slab cache torn down with live objects",
			"object_size", c.objectSize, "live", c.liveObjects)
	}
	var errs []error
	for _, st := range []State{StateFree, StatePartial, StateFull} {
		if _, err := c.releaseList(st); err != nil {
			errs = append(errs, err)
		}
	}
	c.table.descs = c.table.descs[:0]
	c.spare = c.spare[:0]
	c.liveObjects = 0
	if c.live != nil {
		c.live.Clear()
	}
	return errors.Join(errs...)
}

// ObjectSize returns the payload size of each object.
func (c *Cache) ObjectSize() int { return c.objectSize }

// SlotSize returns the per-object footprint including its header.
func (c *Cache) SlotSize() int { return c.slot }

// Capacity returns the number of objects per slab.
func (c *Cache) Capacity() int { return c.capacity }

// Order returns the page-count exponent of each slab.
func (c *Cache) Order() int { return c.order }

// SlabBytes returns the size of each slab extent.
func (c *Cache) SlabBytes() int { return c.slabBytes }

// Slabs returns the number of slabs currently held.
func (c *Cache) Slabs() int { return c.slabs }

// Live returns the number of objects currently allocated.
func (c *Cache) Live() int { return c.liveObjects }

// ============================================================================
// Internal helpers
// ============================================================================

// grow acquires and formats a new slab. The slab is not on any list.
func (c *Cache) grow() (int, error) {
	if c.slabs >= layout.MaxSlabs {
		return dlist.Nil, fmt.Errorf("%w: %d slabs is the per-cache limit", ErrOutOfMemory, layout.MaxSlabs)
	}
	ext, err := c.provider.Acquire(c.order)
	if err != nil {
		c.stats.acquireFailures++
		c.cfg.log().Warn("slab acquire failed", "object_size", c.objectSize, "order", c.order, "err", err)
		return dlist.Nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	if len(ext) < c.slabBytes {
		c.stats.acquireFailures++
		if len(ext) > 0 {
			_ = c.provider.Release(ext) // best-effort; the extent is unusable either way
		}
		return dlist.Nil, fmt.Errorf("%w: provider returned %d bytes, need %d", ErrOutOfMemory, len(ext), c.slabBytes)
	}

	h := c.newHandle()
	layout.PutSlabHeader(ext, layout.SlabHeader{
		Magic:    layout.SlabMagic,
		Handle:   uint32(h),
		Capacity: uint32(c.capacity),
		Tag:      uint32(c.cfg.tag),
	})
	for i := range c.capacity {
		next := uint32(i + 1)
		if i == c.capacity-1 {
			next = layout.NilLink
		}
		layout.PutObjectHeader(ext, layout.ObjectOffset(i, c.slot), uint32(h), next)
	}

	c.table.descs[h] = slabDesc{
		extent:    ext,
		remaining: c.capacity,
		freeHead:  0,
		prev:      dlist.Nil,
		next:      dlist.Nil,
		inUse:     true,
	}
	c.slabs++
	c.stats.slabsAcquired++
	c.cfg.log().Debug("slab acquired", "object_size", c.objectSize, "handle", h, "bytes", len(ext))
	return h, nil
}

// releaseList returns every slab on list st to the provider.
func (c *Cache) releaseList(st State) (int, error) {
	var errs []error
	n := 0
	for h := c.lists[st].Front(); h != dlist.Nil; h = c.lists[st].Front() {
		c.lists[st].Remove(&c.table, h)
		d := &c.table.descs[h]
		if d.remaining < c.capacity {
			c.liveObjects -= c.capacity - d.remaining
		}
		if err := c.provider.Release(d.extent); err != nil {
			errs = append(errs, fmt.Errorf("slab: release slab %d: %w", h, err))
		}
		if c.live != nil {
			lo := uint64(c.objectID(h, 0))
			c.live.RemoveRange(lo, lo+uint64(c.capacity))
		}
		c.freeHandle(h)
		c.stats.slabsReleased++
		n++
	}
	return n, errors.Join(errs...)
}

// stateFor returns the list a slab with remaining free objects belongs on.
func (c *Cache) stateFor(remaining int) State {
	switch remaining {
	case c.capacity:
		return StateFree
	case 0:
		return StateFull
	default:
		return StatePartial
	}
}

func (c *Cache) detach(h int) {
	c.lists[c.table.descs[h].state].Remove(&c.table, h)
}

func (c *Cache) attach(h int, st State) {
	c.table.descs[h].state = st
	c.lists[st].PushFront(&c.table, h)
}

// locate validates ref and returns the slab handle and object header offset.
func (c *Cache) locate(ref Ref) (int, int, error) {
	tag, h, payload := layout.UnpackSlabRef(uint64(ref))
	if tag != c.cfg.tag || h < 0 || h >= len(c.table.descs) || !c.table.descs[h].inUse {
		return 0, 0, fmt.Errorf("%w: ref 0x%X", ErrBadRef, uint64(ref))
	}
	hdr := payload - layout.ObjectHeaderSize
	idx, ok := layout.ObjectIndex(hdr, c.slot)
	if !ok || idx >= c.capacity {
		return 0, 0, fmt.Errorf("%w: ref 0x%X not on an object boundary", ErrBadRef, uint64(ref))
	}
	owner := int(layout.ReadObjectOwner(c.table.descs[h].extent, hdr))
	if owner != h {
		return 0, 0, fmt.Errorf("%w: ref 0x%X owner header names slab %d", ErrBadRef, uint64(ref), owner)
	}
	return owner, hdr, nil
}

func (c *Cache) newHandle() int {
	if n := len(c.spare); n > 0 {
		h := c.spare[n-1]
		c.spare = c.spare[:n-1]
		return h
	}
	c.table.descs = append(c.table.descs, slabDesc{})
	return len(c.table.descs) - 1
}

func (c *Cache) freeHandle(h int) {
	c.table.descs[h] = slabDesc{prev: dlist.Nil, next: dlist.Nil}
	c.spare = append(c.spare, h)
	c.slabs--
}

func (c *Cache) objectID(h, idx int) uint32 {
	return uint32(h*c.capacity + idx)
}

// linkIndex converts an object link word to a free-list index.
func linkIndex(link uint32) int {
	if link == layout.NilLink {
		return -1
	}
	return int(link)
}

// indexLink converts a free-list index to an object link word.
func indexLink(idx int) uint32 {
	if idx < 0 {
		return layout.NilLink
	}
	return uint32(idx)
}
