package arena

import (
	"fmt"

	"github.com/joshuapare/allockit/internal/buf"
	"github.com/joshuapare/allockit/internal/dlist"
	"github.com/joshuapare/allockit/internal/layout"
	"github.com/joshuapare/allockit/internal/liveset"
)

// Ref names an allocated block by the offset of its payload in the buffer.
// It is never below the tag size, so the zero Ref is never valid.
type Ref uint32

// Arena carves variable-sized blocks out of a caller-supplied buffer.
//
// Every block carries an 8-byte header and an identical 8-byte footer
// holding its payload size and a free flag. Free blocks are kept on one
// doubly-linked list whose links live in the first 8 payload bytes. Alloc
// takes the first free block that fits, in list order, and carves the
// busy block off its high end. Free merges the block with free neighbours
// on either side and pushes the result at the list head.
//
// The arena never owns the buffer; the caller keeps it alive and releases
// it. Arena is NOT thread-safe. Wrap it in a SafeArena for concurrent use.
type Arena struct {
	buf   []byte
	cfg   config
	free  dlist.List
	links freeLinks

	busyBlocks int
	busyBytes  int // busy payload bytes
	live       *liveset.Set
	stats      counters
}

// counters holds cumulative call statistics.
type counters struct {
	allocCalls    int
	freeCalls     int
	failures      int
	splits        int
	coalesceLeft  int
	coalesceRight int
}

// freeLinks implements dlist.Links over the in-band free-block links.
// Handles are header offsets.
type freeLinks struct {
	a *Arena
}

func (l freeLinks) Next(h int) int { return layout.ReadNext(l.a.buf, h) }
func (l freeLinks) Prev(h int) int { return layout.ReadPrev(l.a.buf, h) }

func (l freeLinks) SetNext(h, next int) {
	layout.PutNext(l.a.buf, h, next)
	l.a.touch(layout.PayloadOf(h), 4)
}

func (l freeLinks) SetPrev(h, prev int) {
	layout.PutPrev(l.a.buf, h, prev)
	l.a.touch(layout.PayloadOf(h)+4, 4)
}

// New formats b as a single free block spanning the whole buffer.
func New(b []byte, opts ...Option) (*Arena, error) {
	a, err := newArena(b, opts)
	if err != nil {
		return nil, err
	}
	a.Reset()
	return a, nil
}

func newArena(b []byte, opts []Option) (*Arena, error) {
	if len(b) < layout.MinArenaSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrBufferTooSmall, len(b), layout.MinArenaSize)
	}
	if uint64(len(b)) > layout.MaxArenaSize {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrBufferTooLarge, len(b), uint64(layout.MaxArenaSize))
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	a := &Arena{buf: b, cfg: cfg}
	a.links = freeLinks{a: a}
	if cfg.debug {
		a.live = liveset.New()
	}
	return a, nil
}

// Reset discards every allocation and reformats the buffer as one free block.
func (a *Arena) Reset() {
	a.free.Init()
	a.putTags(0, layout.Tag{Size: len(a.buf) - layout.BlockOverhead, Free: true})
	a.free.PushFront(a.links, 0)
	a.busyBlocks = 0
	a.busyBytes = 0
	a.stats = counters{}
	if a.live != nil {
		a.live.Clear()
	}
	a.cfg.log().Debug("arena reset", "bytes", len(a.buf), "min_free_payload", a.cfg.minFree)
}

// Alloc returns a block of at least n bytes. n is rounded up to a multiple
// of 8. The returned slice has length n; Bytes returns the whole payload,
// which may be larger when a free block was too small to split.
//
// On ErrOutOfMemory the arena is unchanged.
func (a *Arena) Alloc(n int) (Ref, []byte, error) {
	a.stats.allocCalls++
	if n <= 0 {
		return 0, nil, ErrNeedSmall
	}
	if n > len(a.buf) {
		a.stats.failures++
		return 0, nil, fmt.Errorf("%w: %d bytes requested, buffer is %d", ErrOutOfMemory, n, len(a.buf))
	}
	need := layout.Align8(n)

	hdr, t := a.firstFit(need)
	if hdr == dlist.Nil {
		a.stats.failures++
		a.cfg.log().Debug("arena out of memory", "need", need, "free_blocks", a.free.Len())
		return 0, nil, fmt.Errorf("%w: %d bytes requested", ErrOutOfMemory, need)
	}

	var busy layout.Tag
	if t.Size-need < layout.BlockOverhead+a.cfg.minFree {
		// Surplus too small to stand alone: hand out the whole block.
		a.free.Remove(a.links, hdr)
		busy = layout.Tag{Size: t.Size}
		a.putTags(hdr, busy)
	} else {
		// The remainder keeps its header, so its list position is unchanged.
		rest := t.Size - need - layout.BlockOverhead
		a.putTags(hdr, layout.Tag{Size: rest, Free: true})
		hdr = layout.BlockEnd(hdr, rest)
		busy = layout.Tag{Size: need}
		a.putTags(hdr, busy)
		a.stats.splits++
	}

	payload := layout.PayloadOf(hdr)
	a.busyBlocks++
	a.busyBytes += busy.Size
	if a.live != nil {
		a.live.Add(uint32(payload))
	}
	return Ref(payload), a.buf[payload : payload+n : payload+n], nil
}

// Free returns a block to the arena, merging it with free neighbours.
//
// ref must come from Alloc on this arena and must not have been freed
// since. Refs that fail the boundary-tag checks are reported as ErrBadRef
// and a block whose header already says free as ErrDoubleFree. With
// WithDebugChecks, refs that were never handed out are rejected as well.
func (a *Arena) Free(ref Ref) error {
	a.stats.freeCalls++

	hdr, t, err := a.locate(ref)
	if err != nil {
		return err
	}
	if t.Free {
		return fmt.Errorf("%w: ref 0x%X", ErrDoubleFree, uint32(ref))
	}
	if a.live != nil && !a.live.Remove(uint32(ref)) {
		return fmt.Errorf("%w: ref 0x%X is not a live block", ErrBadRef, uint32(ref))
	}
	a.busyBlocks--
	a.busyBytes -= t.Size

	start, size := hdr, t.Size
	if start > 0 {
		ftr := start - layout.TagSize
		if left := layout.ReadTag(a.buf, ftr); left.Free {
			start = layout.HeaderFromFooter(ftr, left.Size)
			a.free.Remove(a.links, start)
			size += layout.RawSize(left.Size)
			a.stats.coalesceLeft++
		}
	}
	if start != hdr {
		// Leave a free mark so a repeated Free of this ref is caught.
		layout.PutTag(a.buf, hdr, layout.Tag{Size: t.Size, Free: true})
		a.touch(hdr, layout.TagSize)
	}
	if next := layout.BlockEnd(hdr, t.Size); next < len(a.buf) {
		if right := layout.ReadTag(a.buf, next); right.Free {
			a.free.Remove(a.links, next)
			size += layout.RawSize(right.Size)
			a.stats.coalesceRight++
		}
	}

	a.putTags(start, layout.Tag{Size: size, Free: true})
	a.free.PushFront(a.links, start)
	return nil
}

// Bytes returns the whole payload of an allocated block.
func (a *Arena) Bytes(ref Ref) ([]byte, error) {
	hdr, t, err := a.locate(ref)
	if err != nil {
		return nil, err
	}
	if t.Free {
		return nil, fmt.Errorf("%w: ref 0x%X is free", ErrBadRef, uint32(ref))
	}
	p := layout.PayloadOf(hdr)
	return a.buf[p : p+t.Size : p+t.Size], nil
}

// Size returns the payload size of an allocated block.
func (a *Arena) Size(ref Ref) (int, error) {
	b, err := a.Bytes(ref)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// Len returns the length of the managed buffer.
func (a *Arena) Len() int { return len(a.buf) }

// MinFreePayload returns the split threshold in effect.
func (a *Arena) MinFreePayload() int { return a.cfg.minFree }

// Live returns the number of allocated blocks.
func (a *Arena) Live() int { return a.busyBlocks }

// ============================================================================
// Internal helpers
// ============================================================================

// firstFit returns the first free block in list order whose payload holds
// need bytes, or dlist.Nil.
func (a *Arena) firstFit(need int) (int, layout.Tag) {
	found, tag := dlist.Nil, layout.Tag{}
	a.free.Each(a.links, func(h int) bool {
		t := layout.ReadTag(a.buf, h)
		if t.Size >= need {
			found, tag = h, t
			return false
		}
		return true
	})
	return found, tag
}

// locate checks that ref sits just past a header whose footer matches it
// and returns the header offset and tag. A header marked free is returned
// without the footer check; callers reject it.
func (a *Arena) locate(ref Ref) (int, layout.Tag, error) {
	hdr := layout.HeaderOf(int(ref))
	if hdr < 0 || !buf.Has(a.buf, hdr, layout.BlockOverhead) {
		return 0, layout.Tag{}, fmt.Errorf("%w: ref 0x%X out of range", ErrBadRef, uint32(ref))
	}
	t := layout.ReadTag(a.buf, hdr)
	if t.Free {
		// Possibly the stale header of a block merged away on free.
		return hdr, t, nil
	}
	if !buf.Within(hdr, layout.RawSize(t.Size), 0, len(a.buf)) {
		return 0, layout.Tag{}, fmt.Errorf("%w: ref 0x%X block overruns buffer", ErrBadRef, uint32(ref))
	}
	if layout.ReadTag(a.buf, layout.FooterOf(hdr, t.Size)) != t {
		return 0, layout.Tag{}, fmt.Errorf("%w: ref 0x%X header and footer disagree", ErrBadRef, uint32(ref))
	}
	return hdr, t, nil
}

// putTags writes header and footer for the block at hdr.
func (a *Arena) putTags(hdr int, t layout.Tag) {
	layout.PutBlockTags(a.buf, hdr, t)
	a.touch(hdr, layout.TagSize)
	a.touch(layout.FooterOf(hdr, t.Size), layout.TagSize)
}

func (a *Arena) touch(off, n int) {
	if a.cfg.dt != nil {
		a.cfg.dt.Add(off, n)
	}
}
