package slab

import (
	"errors"
	"fmt"

	"github.com/joshuapare/allockit/internal/layout"
	"github.com/joshuapare/allockit/internal/verify"
	"github.com/joshuapare/allockit/page"
)

// Set serves variable-sized requests from a family of Caches, one per size
// class. A class's cache is created on its first allocation. Refs carry the
// class in their tag, so Free needs no size.
//
// Set is NOT thread-safe.
type Set struct {
	provider page.Provider
	classes  *sizeClassTable
	caches   []*Cache
	opts     []Option
}

// ClassStats pairs a class size with its cache's statistics.
type ClassStats struct {
	Class int
	Size  int
	Stats
}

// NewSet creates a Set over provider with the given size classes. opts apply
// to every class cache except WithTag, which the Set assigns.
func NewSet(provider page.Provider, config SizeClassConfig, opts ...Option) (*Set, error) {
	if provider == nil {
		return nil, errors.New("slab: nil page provider")
	}
	classes, err := newSizeClassTable(config)
	if err != nil {
		return nil, err
	}
	if classes.NumClasses() > int(^uint16(0)) {
		return nil, fmt.Errorf("slab: size classes %q: %d classes exceed the tag space", config.Name, classes.NumClasses())
	}
	return &Set{
		provider: provider,
		classes:  classes,
		caches:   make([]*Cache, classes.NumClasses()),
		opts:     opts,
	}, nil
}

// Classes returns the class sizes, ascending.
func (s *Set) Classes() []int {
	return append([]int(nil), s.classes.sizes...)
}

// MaxSize returns the largest request the Set serves.
func (s *Set) MaxSize() int {
	return s.classes.sizes[len(s.classes.sizes)-1]
}

// Alloc returns an object of at least n bytes. The returned slice has length
// n; Bytes returns the full class-sized payload.
func (s *Set) Alloc(n int) (Ref, []byte, error) {
	if n <= 0 {
		return 0, nil, ErrNeedSmall
	}
	class := s.classes.classOf(n)
	if class < 0 {
		return 0, nil, fmt.Errorf("%w: %d bytes exceeds the largest class (%d)", ErrObjectTooLarge, n, s.MaxSize())
	}
	c, err := s.cache(class)
	if err != nil {
		return 0, nil, err
	}
	ref, b, err := c.Alloc()
	if err != nil {
		return 0, nil, err
	}
	return ref, b[:n:n], nil
}

// Free releases an object allocated by Alloc.
func (s *Set) Free(ref Ref) error {
	c, err := s.route(ref)
	if err != nil {
		return err
	}
	return c.Free(ref)
}

// Bytes returns the class-sized payload of an allocated object.
func (s *Set) Bytes(ref Ref) ([]byte, error) {
	c, err := s.route(ref)
	if err != nil {
		return nil, err
	}
	return c.Bytes(ref)
}

// Shrink releases idle slabs in every class and returns the total count.
func (s *Set) Shrink() (int, error) {
	total := 0
	var errs []error
	for _, c := range s.caches {
		if c == nil {
			continue
		}
		n, err := c.Shrink()
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

// Teardown releases every slab in every class.
func (s *Set) Teardown() error {
	var errs []error
	for _, c := range s.caches {
		if c == nil {
			continue
		}
		if err := c.Teardown(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stats returns statistics for every class that has been used.
func (s *Set) Stats() []ClassStats {
	var out []ClassStats
	for i, c := range s.caches {
		if c == nil {
			continue
		}
		out = append(out, ClassStats{Class: i, Size: s.classes.sizes[i], Stats: c.Stats()})
	}
	return out
}

// Verify checks every class cache.
func (s *Set) Verify() error {
	for i, c := range s.caches {
		if c == nil {
			continue
		}
		if err := c.Verify(); err != nil {
			var ve *verify.ValidationError
			if errors.As(err, &ve) {
				ve.With("class_size", s.classes.sizes[i])
			}
			return err
		}
	}
	return nil
}

func (s *Set) cache(class int) (*Cache, error) {
	if c := s.caches[class]; c != nil {
		return c, nil
	}
	opts := append(append([]Option(nil), s.opts...), WithTag(uint16(class+1)))
	c, err := New(s.provider, s.classes.sizes[class], opts...)
	if err != nil {
		return nil, fmt.Errorf("slab: class %d (%d bytes): %w", class, s.classes.sizes[class], err)
	}
	s.caches[class] = c
	c.cfg.log().Debug("slab class created", "classes", s.classes.String(), "class", class, "size", c.objectSize)
	return c, nil
}

func (s *Set) route(ref Ref) (*Cache, error) {
	tag, _, _ := layout.UnpackSlabRef(uint64(ref))
	class := int(tag) - 1
	if class < 0 || class >= len(s.caches) || s.caches[class] == nil {
		return nil, fmt.Errorf("%w: ref 0x%X has no class", ErrBadRef, uint64(ref))
	}
	return s.caches[class], nil
}
