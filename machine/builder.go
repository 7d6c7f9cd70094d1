package machine

// A Builder can build processors.
type Builder struct {
	pageSize     uint64
	numPhysPages int
}

// MakeBuilder creates a builder with 1 KiB pages and 32 physical pages.
func MakeBuilder() Builder {
	return Builder{
		pageSize:     1024,
		numPhysPages: 32,
	}
}

// WithPageSize sets the page size reported by the processor. The processor
// itself accepts any positive page size; the kernel decides whether it can
// run with it.
func (b Builder) WithPageSize(pageSize uint64) Builder {
	b.pageSize = pageSize
	return b
}

// WithNumPhysPages sets the number of physical page frames in main memory.
func (b Builder) WithNumPhysPages(n int) Builder {
	b.numPhysPages = n
	return b
}

// Build creates a new processor.
func (b Builder) Build(name string) *Processor {
	if b.pageSize == 0 {
		panic("page size must be positive")
	}

	if b.numPhysPages < 0 {
		panic("number of physical pages must not be negative")
	}

	p := &Processor{
		name:         name,
		pageSize:     b.pageSize,
		numPhysPages: b.numPhysPages,
		memory:       make([]byte, uint64(b.numPhysPages)*b.pageSize),
	}

	return p
}
