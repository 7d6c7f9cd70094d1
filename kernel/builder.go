package kernel

import (
	"log"

	"github.com/sarchlab/userkernel/machine"
	"github.com/sarchlab/userkernel/sim"
)

// A Builder can build kernels.
type Builder struct {
	processor *machine.Processor
	console   machine.Console
	hooks     []sim.Hook
	recorders []Recorder
	logger    *log.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithProcessor sets the processor the kernel runs on.
func (b Builder) WithProcessor(p *machine.Processor) Builder {
	b.processor = p
	return b
}

// WithConsole sets the console used by the self test.
func (b Builder) WithConsole(c machine.Console) Builder {
	b.console = c
	return b
}

// WithHooks sets hooks to attach to the frame allocator and the exception
// router when the kernel boots.
func (b Builder) WithHooks(hooks ...sim.Hook) Builder {
	b.hooks = append([]sim.Hook(nil), hooks...)
	return b
}

// WithRecorders sets the recorders flushed on termination.
func (b Builder) WithRecorders(recorders ...Recorder) Builder {
	b.recorders = append([]Recorder(nil), recorders...)
	return b
}

// WithLogger sets the logger. By default nothing is logged.
func (b Builder) WithLogger(l *log.Logger) Builder {
	b.logger = l
	return b
}

// Build creates a kernel that still needs to be initialized.
func (b Builder) Build(name string) *Kernel {
	if b.processor == nil {
		panic("kernel requires a processor")
	}

	logger := b.logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Kernel{
		name:      name,
		processor: b.processor,
		console:   b.console,
		hooks:     b.hooks,
		recorders: b.recorders,
		logger:    logger,
	}
}
