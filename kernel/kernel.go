// Package kernel boots the user kernel on a processor and runs user programs
// on it.
package kernel

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/sarchlab/userkernel/exception"
	"github.com/sarchlab/userkernel/machine"
	"github.com/sarchlab/userkernel/mem/frame"
	"github.com/sarchlab/userkernel/mem/vm"
	"github.com/sarchlab/userkernel/sim"
	"github.com/sarchlab/userkernel/threads"
	"github.com/sarchlab/userkernel/userprog"
)

var (
	// ErrAlreadyInitialized is returned when a kernel is initialized twice.
	ErrAlreadyInitialized = errors.New("kernel already initialized")

	// ErrNotInitialized is returned when a kernel is used before it is
	// initialized.
	ErrNotInitialized = errors.New("kernel not initialized")

	// ErrNoConsole is returned by SelfTest when the kernel has no console.
	ErrNoConsole = errors.New("kernel has no console")
)

// A Recorder buffers what the kernel reports and writes it out on Flush.
type Recorder interface {
	Flush()
}

// Kernel is a kernel that runs user programs.
type Kernel struct {
	name      string
	processor *machine.Processor
	console   machine.Console
	hooks     []sim.Hook
	recorders []Recorder
	logger    *log.Logger

	lock        sync.Mutex
	initialized bool
	terminated  bool
	nextPID     vm.PID

	geometry  vm.Geometry
	frames    *frame.Allocator
	pageTable vm.PageTable
	router    *exception.Router
	scheduler *threads.Scheduler
}

// Name returns the name of the kernel.
func (k *Kernel) Name() string {
	return k.name
}

// Initialize boots the kernel. It fails if the page size of the processor
// cannot be split into page numbers and offsets, in which case the kernel
// stays uninitialized.
func (k *Kernel) Initialize(args []string) error {
	k.lock.Lock()
	defer k.lock.Unlock()

	if k.initialized {
		return ErrAlreadyInitialized
	}

	geometry, err := vm.NewGeometry(k.processor.PageSize())
	if err != nil {
		return fmt.Errorf("%s: cannot boot on %s: %w",
			k.name, k.processor.Name(), err)
	}

	k.geometry = geometry
	k.frames = frame.MakeBuilder().
		WithNumFrames(k.processor.NumPhysPages()).
		Build(k.name + ".Frames")
	k.pageTable = vm.NewPageTable(geometry.OffsetBits())
	k.scheduler = threads.NewScheduler()
	k.router = exception.MakeBuilder().
		WithRegisterFile(k.processor).
		WithThreadTracker(k.scheduler).
		Build(k.name + ".Router")
	k.router.Install(k.processor)

	for _, h := range k.hooks {
		k.frames.AcceptHook(h)
		k.router.AcceptHook(h)
	}

	k.initialized = true
	k.logger.Printf("%s: booted with args %q, %d frames of %d bytes",
		k.name, args, k.frames.NumFrames(), geometry.PageSize())

	return nil
}

// SelfTest echoes what is typed on the console until a 'q' is typed.
func (k *Kernel) SelfTest() error {
	if k.console == nil {
		return ErrNoConsole
	}

	err := writeString(k.console,
		"Testing the console device. Typed characters will be echoed until q is typed.\r\n")
	if err != nil {
		return err
	}

	for {
		c, err := k.console.ReadByte()
		if err != nil {
			return fmt.Errorf("%s: console: %w", k.name, err)
		}

		if err := k.console.WriteByte(c); err != nil {
			return fmt.Errorf("%s: console: %w", k.name, err)
		}

		if c == 'q' {
			return writeString(k.console, "\r\n")
		}
	}
}

func writeString(c machine.Console, s string) error {
	for i := 0; i < len(s); i++ {
		if err := c.WriteByte(s[i]); err != nil {
			return err
		}
	}

	return nil
}

// Run runs the program as a new process, waits for it to exit and returns its
// exit status.
func (k *Kernel) Run(prog userprog.Program) (int, error) {
	p, err := k.newProcess()
	if err != nil {
		return 0, err
	}

	k.logger.Printf("%s: running %s as %s", k.name, prog.Name, p.Name())
	p.Execute(prog).Join()

	status, _ := p.ExitStatus()

	return status, nil
}

func (k *Kernel) newProcess() (*userprog.Process, error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	if !k.initialized {
		return nil, ErrNotInitialized
	}

	k.nextPID++

	p := userprog.MakeBuilder().
		WithGeometry(k.geometry).
		WithPageTable(k.pageTable).
		WithFrameAllocator(k.frames).
		WithProcessor(k.processor).
		WithScheduler(k.scheduler).
		WithLogger(k.logger).
		Build(k.nextPID)

	return p, nil
}

// Terminate flushes every recorder and reports the frames still in use.
// Terminating twice does nothing.
func (k *Kernel) Terminate() {
	k.lock.Lock()
	defer k.lock.Unlock()

	if k.terminated {
		return
	}

	k.terminated = true

	for _, r := range k.recorders {
		r.Flush()
	}

	if k.initialized {
		k.logger.Printf("%s: terminated, %d of %d frames free",
			k.name, k.frames.NumFree(), k.frames.NumFrames())
	}
}

// Processor returns the processor the kernel runs on.
func (k *Kernel) Processor() *machine.Processor {
	return k.processor
}

// Geometry returns how the kernel splits addresses into pages.
func (k *Kernel) Geometry() vm.Geometry {
	return k.geometry
}

// Frames returns the physical frame allocator.
func (k *Kernel) Frames() *frame.Allocator {
	return k.frames
}

// PageTable returns the page table shared by all processes.
func (k *Kernel) PageTable() vm.PageTable {
	return k.pageTable
}

// Router returns the exception router.
func (k *Kernel) Router() *exception.Router {
	return k.router
}

// Scheduler returns the thread scheduler.
func (k *Kernel) Scheduler() *threads.Scheduler {
	return k.scheduler
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
