package slab

import (
	"fmt"
	"math"

	"github.com/joshuapare/allockit/internal/layout"
)

// SizeClassConfig defines how a Set divides object sizes into classes.
type SizeClassConfig struct {
	// Name for this configuration (for logs and tests)
	Name string

	// Small classes (linear increments)
	SmallMin       int // First class size
	SmallMax       int // Last linear class size
	SmallIncrement int // Step between linear classes

	// Medium classes (geometric growth)
	MediumMax    int     // Largest object a Set serves
	GrowthFactor float64 // Ratio between successive medium classes
}

// Predefined configurations.
var (
	// FineGrained: 8-256 step 8 (32 classes) + 256-16K growth 1.5 (~11 classes).
	ConfigFineGrained = SizeClassConfig{
		Name:           "FineGrained",
		SmallMin:       8,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Balanced: 16-512 step 16 (32 classes) + 512-16K growth 1.5 (~9 classes).
	ConfigBalanced = SizeClassConfig{
		Name:           "Balanced",
		SmallMin:       16,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Coarse: 32-512 step 32 (16 classes) + 512-16K doubling (5 classes).
	ConfigCoarse = SizeClassConfig{
		Name:           "Coarse",
		SmallMin:       32,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}

	// Default configuration (used by NewSet when none is given).
	DefaultConfig = ConfigBalanced
)

func (c SizeClassConfig) validate() error {
	switch {
	case c.SmallMin <= 0, c.SmallIncrement <= 0:
		return fmt.Errorf("slab: size classes %q: SmallMin and SmallIncrement must be positive", c.Name)
	case c.SmallMax < c.SmallMin:
		return fmt.Errorf("slab: size classes %q: SmallMax %d below SmallMin %d", c.Name, c.SmallMax, c.SmallMin)
	case c.MediumMax > c.SmallMax && c.GrowthFactor <= 1:
		return fmt.Errorf("slab: size classes %q: GrowthFactor must exceed 1", c.Name)
	}
	return nil
}

// sizeClassTable holds the computed class sizes, ascending. Every size is a
// multiple of 8 so objects of neighbouring classes never share a slot size.
type sizeClassTable struct {
	config SizeClassConfig
	sizes  []int
}

func newSizeClassTable(config SizeClassConfig) (*sizeClassTable, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	t := &sizeClassTable{config: config, sizes: make([]int, 0, 64)}

	// Phase 1: linear
	last := 0
	for size := config.SmallMin; size <= config.SmallMax; size += config.SmallIncrement {
		last = t.add(size, last)
	}

	// Phase 2: geometric
	size := last
	for size < config.MediumMax {
		next := int(math.Ceil(float64(size) * config.GrowthFactor))
		if next <= size {
			next = size + 1
		}
		size = min(next, config.MediumMax)
		last = t.add(size, last)
	}
	return t, nil
}

// add appends size rounded up to 8, skipping duplicates.
func (t *sizeClassTable) add(size, last int) int {
	size = layout.Align8(size)
	if size > last {
		t.sizes = append(t.sizes, size)
		return size
	}
	return last
}

// classOf returns the smallest class that holds n bytes, or -1 when n is
// larger than every class.
func (t *sizeClassTable) classOf(n int) int {
	lo, hi := 0, len(t.sizes)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if n <= t.sizes[mid] {
			if mid == 0 || n > t.sizes[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return -1
}

// String returns the configuration name.
func (t *sizeClassTable) String() string {
	return t.config.Name
}

// NumClasses returns the number of size classes.
func (t *sizeClassTable) NumClasses() int {
	return len(t.sizes)
}
