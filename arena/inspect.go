package arena

import (
	"bufio"
	"fmt"
	"io"

	"github.com/joshuapare/allockit/internal/layout"
	"github.com/joshuapare/allockit/internal/verify"
)

// Block describes one block of the arena.
type Block struct {
	Offset int  // Header offset
	Size   int  // Payload size
	Free   bool // On the free list
}

// Ref returns the payload ref of the block.
func (b Block) Ref() Ref { return Ref(layout.PayloadOf(b.Offset)) }

// Stats is a snapshot of arena occupancy and activity.
type Stats struct {
	Bytes         int // Buffer length
	FreeBlocks    int
	BusyBlocks    int
	FreeBytes     int // Free payload bytes
	BusyBytes     int // Busy payload bytes
	OverheadBytes int // Boundary tags
	LargestFree   int // Largest free payload

	AllocCalls    int
	FreeCalls     int
	Failures      int // Allocs refused for lack of space
	Splits        int
	CoalesceLeft  int
	CoalesceRight int
}

// Fragmentation returns 1 - LargestFree/FreeBytes: 0 when all free space
// is one block, approaching 1 as it scatters.
func (s Stats) Fragmentation() float64 {
	if s.FreeBytes == 0 {
		return 0
	}
	return 1 - float64(s.LargestFree)/float64(s.FreeBytes)
}

// Stats returns a snapshot of the arena.
func (a *Arena) Stats() Stats {
	st := Stats{
		Bytes:         len(a.buf),
		FreeBlocks:    a.free.Len(),
		BusyBlocks:    a.busyBlocks,
		BusyBytes:     a.busyBytes,
		OverheadBytes: (a.free.Len() + a.busyBlocks) * layout.BlockOverhead,
		AllocCalls:    a.stats.allocCalls,
		FreeCalls:     a.stats.freeCalls,
		Failures:      a.stats.failures,
		Splits:        a.stats.splits,
		CoalesceLeft:  a.stats.coalesceLeft,
		CoalesceRight: a.stats.coalesceRight,
	}
	st.FreeBytes = st.Bytes - st.BusyBytes - st.OverheadBytes
	a.free.Each(a.links, func(h int) bool {
		st.LargestFree = max(st.LargestFree, layout.ReadTag(a.buf, h).Size)
		return true
	})
	return st
}

// Blocks returns every block in address order. It stops early if the tags
// are corrupt; Verify reports why.
func (a *Arena) Blocks() []Block {
	var out []Block
	_ = a.walk(func(hdr int, t layout.Tag) error {
		out = append(out, Block{Offset: hdr, Size: t.Size, Free: t.Free})
		return nil
	})
	return out
}

// FreeBlocks returns the free list in list order.
func (a *Arena) FreeBlocks() []Block {
	out := make([]Block, 0, a.free.Len())
	a.free.Each(a.links, func(h int) bool {
		out = append(out, Block{Offset: h, Size: layout.ReadTag(a.buf, h).Size, Free: true})
		return true
	})
	return out
}

// Dump writes the memory map on one line, e.g. "102(free) 16(busy)",
// giving each block's payload size in address order.
func (a *Arena) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, b := range a.Blocks() {
		if i > 0 {
			_ = bw.WriteByte(' ')
		}
		state := "busy"
		if b.Free {
			state = "free"
		}
		fmt.Fprintf(bw, "%d(%s)", b.Size, state)
	}
	_ = bw.WriteByte('\n')
	return bw.Flush()
}

// Verify checks the arena's structural invariants:
//   - boundary tags tile the buffer exactly, each header matching its footer
//   - no two adjacent blocks are both free
//   - the free list is well linked and holds exactly the free blocks
//   - busy block and byte counts match the tags
//
// With WithDebugChecks the live set must name exactly the busy blocks.
// The first violation is returned as a *verify.ValidationError.
func (a *Arena) Verify() error {
	freeAt := make(map[int]bool)
	busy, busyBytes := 0, 0
	prevFree := false
	var failure *verify.ValidationError

	err := a.walk(func(hdr int, t layout.Tag) error {
		if t.Free {
			if prevFree {
				failure = verify.Errorf("Coalesce", hdr, "free block follows another free block")
				return ErrCorrupt
			}
			freeAt[hdr] = true
		} else {
			busy++
			busyBytes += t.Size
			if a.live != nil && !a.live.Contains(uint32(layout.PayloadOf(hdr))) {
				failure = verify.Errorf("LiveSet", hdr, "busy block is not tracked")
				return ErrCorrupt
			}
		}
		prevFree = t.Free
		return nil
	})
	if failure != nil {
		return failure
	}
	if err != nil {
		return &verify.ValidationError{Type: "BoundaryTag", Message: err.Error(), Offset: -1}
	}

	if err := a.free.Check(a.links, len(a.buf)/layout.MinArenaSize+1); err != nil {
		return &verify.ValidationError{Type: "FreeList", Message: err.Error(), Offset: -1}
	}
	listed := 0
	a.free.Each(a.links, func(h int) bool {
		if !freeAt[h] {
			failure = verify.Errorf("FreeList", h, "list member is not a free block")
			return false
		}
		listed++
		return true
	})
	if failure != nil {
		return failure
	}
	if listed != len(freeAt) {
		return verify.Errorf("FreeList", -1, "%d free blocks, %d on the list", len(freeAt), listed)
	}

	if busy != a.busyBlocks || busyBytes != a.busyBytes {
		return verify.Errorf("Accounting", -1, "tags show %d busy blocks (%d bytes), counters %d (%d bytes)",
			busy, busyBytes, a.busyBlocks, a.busyBytes)
	}
	if a.live != nil && a.live.Len() != busy {
		return verify.Errorf("LiveSet", -1, "%d tracked refs, %d busy blocks", a.live.Len(), busy)
	}
	return nil
}
