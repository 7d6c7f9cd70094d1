package userprog

import (
	"fmt"
	"io"
	"log"

	"github.com/sarchlab/userkernel/mem/vm"
	"github.com/sarchlab/userkernel/threads"
)

// A Builder can build processes.
type Builder struct {
	geometry  vm.Geometry
	pageTable vm.PageTable
	frames    FrameAllocator
	processor Processor
	scheduler *threads.Scheduler
	logger    *log.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithGeometry sets how addresses are split into pages.
func (b Builder) WithGeometry(g vm.Geometry) Builder {
	b.geometry = g
	return b
}

// WithPageTable sets the page table shared by all processes.
func (b Builder) WithPageTable(pt vm.PageTable) Builder {
	b.pageTable = pt
	return b
}

// WithFrameAllocator sets where the frames of the process come from.
func (b Builder) WithFrameAllocator(a FrameAllocator) Builder {
	b.frames = a
	return b
}

// WithProcessor sets the processor that runs the process.
func (b Builder) WithProcessor(p Processor) Builder {
	b.processor = p
	return b
}

// WithScheduler sets the scheduler that runs the threads of the process.
func (b Builder) WithScheduler(s *threads.Scheduler) Builder {
	b.scheduler = s
	return b
}

// WithLogger sets the logger. By default nothing is logged.
func (b Builder) WithLogger(l *log.Logger) Builder {
	b.logger = l
	return b
}

// Build creates a process with the given PID.
func (b Builder) Build(pid vm.PID) *Process {
	b.mustBeComplete()

	logger := b.logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Process{
		pid:       pid,
		name:      fmt.Sprintf("Process[%d]", pid),
		geometry:  b.geometry,
		pageTable: b.pageTable,
		frames:    b.frames,
		processor: b.processor,
		scheduler: b.scheduler,
		logger:    logger,
	}
}

func (b Builder) mustBeComplete() {
	if b.geometry.PageSize() == 0 {
		panic("process requires a page geometry")
	}

	if b.pageTable == nil {
		panic("process requires a page table")
	}

	if b.frames == nil {
		panic("process requires a frame allocator")
	}

	if b.processor == nil {
		panic("process requires a processor")
	}

	if b.scheduler == nil {
		panic("process requires a scheduler")
	}
}
