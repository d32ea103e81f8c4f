package layout

const (
	// Alignment is the natural alignment of every header and payload size.
	Alignment = 8

	// AlignmentMask is Alignment - 1.
	AlignmentMask = Alignment - 1

	// DefaultPageSize is the page granularity used by the bundled page providers.
	DefaultPageSize = 4096
)

// Arena layout.
const (
	// TagSize is the size of one boundary tag (header or footer).
	TagSize = 8

	// BlockOverhead is the fixed per-block cost: one header and one footer.
	BlockOverhead = 2 * TagSize

	// LinkSize is the space a free block needs in its payload for next/prev links.
	LinkSize = 8

	// DefaultMinFreePayload is the smallest payload a split remainder may keep.
	// Smaller remainders are handed out with the allocation instead.
	DefaultMinFreePayload = 16

	// MinArenaSize is the smallest buffer that can hold a single free block.
	MinArenaSize = BlockOverhead + LinkSize

	// MaxArenaSize is the largest buffer addressable by 32-bit tags and links.
	MaxArenaSize = 1<<32 - 2

	// flagFree marks a free block in the tag flags word.
	flagFree = 1 << 0

	// NilLink terminates an in-band list.
	NilLink = 0xFFFFFFFF
)

// Slab layout.
const (
	// SlabHeaderSize is the in-band header at the start of every slab extent.
	SlabHeaderSize = 16

	// ObjectHeaderSize precedes every object payload inside a slab.
	ObjectHeaderSize = 8

	// SlabMagic identifies an initialised slab extent ("slab", little-endian).
	SlabMagic uint32 = 0x62616c73

	// BusyLink is stored in an object's link word while the object is allocated.
	BusyLink uint32 = 0xFFFFFFFE
)

// Slab ref packing: tag(16) | handle+1(24) | payload offset(24).
const (
	RefOffsetBits = 24
	RefHandleBits = 24
	RefTagBits    = 16

	// MaxSlabBytes is the largest extent whose payload offsets fit in a ref.
	MaxSlabBytes = 1 << RefOffsetBits

	// MaxSlabs is the number of slab handles a single cache can address.
	MaxSlabs = 1<<RefHandleBits - 1

	refOffsetMask = 1<<RefOffsetBits - 1
	refHandleMask = 1<<RefHandleBits - 1
)
