package arena

import "errors"

var (
	// ErrOutOfMemory indicates no free block is large enough for the request.
	ErrOutOfMemory = errors.New("arena: no free block large enough")

	// ErrBadRef indicates a ref that does not name a block of this arena.
	ErrBadRef = errors.New("arena: bad block reference")

	// ErrDoubleFree indicates a ref whose block is already free.
	ErrDoubleFree = errors.New("arena: block already free")

	// ErrNeedSmall indicates a non-positive request size.
	ErrNeedSmall = errors.New("arena: request size must be positive")

	// ErrBufferTooSmall indicates a buffer that cannot hold a single free block.
	ErrBufferTooSmall = errors.New("arena: buffer too small")

	// ErrBufferTooLarge indicates a buffer beyond what 32-bit tags can describe.
	ErrBufferTooLarge = errors.New("arena: buffer too large")

	// ErrCorrupt indicates boundary tags that do not tile the buffer.
	ErrCorrupt = errors.New("arena: corrupt boundary tags")
)
