package frame

import (
	"github.com/bits-and-blooms/bitset"
)

// A Builder can build frame allocators.
type Builder struct {
	numFrames int
}

// MakeBuilder creates a new builder with no frames.
func MakeBuilder() Builder {
	return Builder{}
}

// WithNumFrames sets the number of physical frames to manage.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// Build creates an allocator that has every frame free.
func (b Builder) Build(name string) *Allocator {
	if b.numFrames < 0 {
		panic("number of frames must not be negative")
	}

	a := &Allocator{
		name:      name,
		allocated: bitset.New(uint(b.numFrames)),
		numFrames: uint(b.numFrames),
		numFree:   uint(b.numFrames),
	}

	return a
}
