package layout

import "testing"

func TestAlign8(t *testing.T) {
	cases := map[int]int{0: 0, 1: 8, 7: 8, 8: 8, 9: 16, 16: 16, 1000: 1000, 1001: 1008}
	for in, want := range cases {
		if got := Align8(in); got != want {
			t.Fatalf("Align8(%d) = %d, want %d", in, got, want)
		}
	}
	if AlignDown8(15) != 8 || AlignDown8(16) != 16 {
		t.Fatalf("AlignDown8 mismatch")
	}
	if !IsAligned8(24) || IsAligned8(25) {
		t.Fatalf("IsAligned8 mismatch")
	}
}

func TestSlabCapacity(t *testing.T) {
	slot := ObjectSlot(1000)
	if slot != 1008 {
		t.Fatalf("ObjectSlot(1000) = %d, want 1008", slot)
	}
	slabBytes := DefaultPageSize << 5
	if got, want := SlabCapacity(slabBytes, slot), (slabBytes-SlabHeaderSize)/slot; got != want {
		t.Fatalf("SlabCapacity = %d, want %d", got, want)
	}
	if SlabCapacity(SlabHeaderSize, 8) != 0 {
		t.Fatalf("header-only slab should have zero capacity")
	}
	if SlabCapacity(4096, 0) != 0 {
		t.Fatalf("zero slot should have zero capacity")
	}
}

func TestTagRoundTrip(t *testing.T) {
	b := make([]byte, 128)
	PutBlockTags(b, 0, Tag{Size: 48, Free: true})
	if got := ReadTag(b, 0); got.Size != 48 || !got.Free {
		t.Fatalf("header = %+v", got)
	}
	ftr := FooterOf(0, 48)
	if ftr != 56 {
		t.Fatalf("FooterOf = %d, want 56", ftr)
	}
	if got := ReadTag(b, ftr); got.Size != 48 || !got.Free {
		t.Fatalf("footer = %+v", got)
	}
	if HeaderFromFooter(ftr, 48) != 0 {
		t.Fatalf("HeaderFromFooter mismatch")
	}
	if BlockEnd(0, 48) != 64 || RawSize(48) != 64 {
		t.Fatalf("BlockEnd/RawSize mismatch")
	}
	if HeaderOf(PayloadOf(24)) != 24 {
		t.Fatalf("PayloadOf/HeaderOf are not inverses")
	}

	PutBlockTags(b, 64, Tag{Size: 48})
	if ReadTag(b, 64).Free || ReadTag(b, FooterOf(64, 48)).Free {
		t.Fatalf("busy block reads as free")
	}
}

func TestLinks(t *testing.T) {
	b := make([]byte, 64)
	PutNext(b, 0, 40)
	PutPrev(b, 0, -1)
	if ReadNext(b, 0) != 40 {
		t.Fatalf("ReadNext = %d", ReadNext(b, 0))
	}
	if ReadPrev(b, 0) != -1 {
		t.Fatalf("ReadPrev = %d, want -1", ReadPrev(b, 0))
	}
	if ReadU32(b, TagSize+4) != NilLink {
		t.Fatalf("nil link not encoded as NilLink")
	}
}

func TestObjectHeader(t *testing.T) {
	ext := make([]byte, 256)
	PutSlabHeader(ext, SlabHeader{Magic: SlabMagic, Handle: 3, Capacity: 7, Tag: 2})
	h := ReadSlabHeader(ext)
	if h.Magic != SlabMagic || h.Handle != 3 || h.Capacity != 7 || h.Tag != 2 {
		t.Fatalf("slab header = %+v", h)
	}

	off := ObjectOffset(2, 24)
	if off != SlabHeaderSize+48 {
		t.Fatalf("ObjectOffset = %d", off)
	}
	if i, ok := ObjectIndex(off, 24); !ok || i != 2 {
		t.Fatalf("ObjectIndex = %d, %v", i, ok)
	}
	if _, ok := ObjectIndex(off+1, 24); ok {
		t.Fatalf("ObjectIndex accepted unaligned offset")
	}
	if _, ok := ObjectIndex(4, 24); ok {
		t.Fatalf("ObjectIndex accepted offset inside slab header")
	}

	PutObjectHeader(ext, off, 3, BusyLink)
	if ReadObjectOwner(ext, off) != 3 || ReadObjectLink(ext, off) != BusyLink {
		t.Fatalf("object header mismatch")
	}
	PutObjectLink(ext, off, 5)
	if ReadObjectOwner(ext, off) != 3 || ReadObjectLink(ext, off) != 5 {
		t.Fatalf("PutObjectLink clobbered owner")
	}
}

func TestSlabRef(t *testing.T) {
	ref := PackSlabRef(7, 42, 0x1234)
	tag, h, off := UnpackSlabRef(ref)
	if tag != 7 || h != 42 || off != 0x1234 {
		t.Fatalf("UnpackSlabRef = %d, %d, %d", tag, h, off)
	}
	if _, h, _ := UnpackSlabRef(0); h != -1 {
		t.Fatalf("zero ref decoded to handle %d", h)
	}
	maxRef := PackSlabRef(0xFFFF, MaxSlabs-1, MaxSlabBytes-1)
	tag, h, off = UnpackSlabRef(maxRef)
	if tag != 0xFFFF || h != MaxSlabs-1 || off != MaxSlabBytes-1 {
		t.Fatalf("max ref round trip = %d, %d, %d", tag, h, off)
	}
}
