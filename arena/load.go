package arena

import (
	"fmt"

	"github.com/joshuapare/allockit/internal/layout"
)

// Load adopts a buffer that an Arena has already formatted, such as a
// persisted file mapping. The boundary tags are walked and validated and
// the free list is rebuilt in address order; stale links in free blocks
// are ignored. Busy blocks stay allocated and their refs remain valid.
//
// Tags that do not tile the buffer exactly, or two adjacent free blocks,
// are reported as ErrCorrupt.
func Load(b []byte, opts ...Option) (*Arena, error) {
	a, err := newArena(b, opts)
	if err != nil {
		return nil, err
	}
	a.free.Init()

	var frees []int
	prevFree := false
	err = a.walk(func(hdr int, t layout.Tag) error {
		if t.Free {
			if prevFree {
				return fmt.Errorf("%w: adjacent free blocks at 0x%X", ErrCorrupt, hdr)
			}
			frees = append(frees, hdr)
		} else {
			a.busyBlocks++
			a.busyBytes += t.Size
			if a.live != nil {
				a.live.Add(uint32(layout.PayloadOf(hdr)))
			}
		}
		prevFree = t.Free
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := len(frees) - 1; i >= 0; i-- {
		a.free.PushFront(a.links, frees[i])
	}
	a.cfg.log().Debug("arena loaded", "bytes", len(b), "busy", a.busyBlocks, "free", len(frees))
	return a, nil
}

// walk visits every block in address order. It stops with ErrCorrupt on a
// block smaller than the link size, a block running past the buffer, a
// header and footer that disagree, or tiling that misses the buffer end.
func (a *Arena) walk(fn func(hdr int, t layout.Tag) error) error {
	off := 0
	for off < len(a.buf) {
		if len(a.buf)-off < layout.BlockOverhead {
			return fmt.Errorf("%w: %d trailing bytes at 0x%X", ErrCorrupt, len(a.buf)-off, off)
		}
		t := layout.ReadTag(a.buf, off)
		if t.Size < layout.LinkSize {
			return fmt.Errorf("%w: block at 0x%X has size %d", ErrCorrupt, off, t.Size)
		}
		if t.Size > len(a.buf)-off-layout.BlockOverhead {
			return fmt.Errorf("%w: block at 0x%X with size %d overruns buffer", ErrCorrupt, off, t.Size)
		}
		if ft := layout.ReadTag(a.buf, layout.FooterOf(off, t.Size)); ft != t {
			return fmt.Errorf("%w: block at 0x%X header %+v footer %+v", ErrCorrupt, off, t, ft)
		}
		if err := fn(off, t); err != nil {
			return err
		}
		off = layout.BlockEnd(off, t.Size)
	}
	return nil
}
