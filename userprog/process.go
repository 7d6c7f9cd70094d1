// Package userprog runs user programs as processes on the processor.
//
// A process owns the pages it maps in the shared page table and every frame
// behind them. Pages are mapped on demand when the processor reports a page
// fault, and all of them are handed back when the process exits.
package userprog

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/sarchlab/userkernel/machine"
	"github.com/sarchlab/userkernel/mem/frame"
	"github.com/sarchlab/userkernel/mem/vm"
	"github.com/sarchlab/userkernel/threads"
)

// System call codes, passed in RegV0.
const (
	SyscallHalt uint64 = 0
	SyscallExit uint64 = 1
)

// ExitKilled is the exit status of a process that the kernel terminated.
const ExitKilled = -1

// A FrameAllocator hands out physical frames.
type FrameAllocator interface {
	Allocate() (frame.Frame, error)
	Free(f frame.Frame) error
}

// A Processor is the part of the processor a process runs on.
type Processor interface {
	ReadRegister(reg int) uint64
	WriteRegister(reg int, value uint64)
	SwitchAddressSpace(pid vm.PID, pageTable vm.PageTable)
	Load(vAddr uint64) (byte, error)
	Store(vAddr uint64, value byte) error
	RaiseException(cause machine.ExceptionCause, badVAddr uint64)
}

// Process is a user process.
type Process struct {
	pid       vm.PID
	name      string
	geometry  vm.Geometry
	pageTable vm.PageTable
	frames    FrameAllocator
	processor Processor
	scheduler *threads.Scheduler
	logger    *log.Logger

	lock   sync.Mutex
	exited bool
	status int
}

// PID returns the process ID.
func (p *Process) PID() vm.PID {
	return p.pid
}

// Name returns the name of the process.
func (p *Process) Name() string {
	return p.name
}

// ExitStatus returns the exit status and whether the process has exited.
func (p *Process) ExitStatus() (int, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.status, p.exited
}

// Exited tells if the process has exited.
func (p *Process) Exited() bool {
	_, exited := p.ExitStatus()
	return exited
}

// NumMappedPages returns the number of pages the process currently maps.
func (p *Process) NumMappedPages() int {
	return len(p.pageTable.Pages(p.pid))
}

// HandleException recovers from the exception if the process can, and
// terminates the process otherwise.
func (p *Process) HandleException(cause machine.ExceptionCause) {
	switch cause {
	case machine.ExceptionPageFault, machine.ExceptionTLBMiss:
		p.handlePageFault()
	case machine.ExceptionSyscall:
		p.handleSyscall()
	default:
		p.logger.Printf("%s: unexpected %s, killing the process",
			p.name, cause)
		p.Exit(ExitKilled)
	}
}

func (p *Process) handlePageFault() {
	badVAddr := p.processor.ReadRegister(machine.RegBadVAddr)
	vpn := p.geometry.PageNumber(badVAddr)

	if page, found := p.pageTable.Find(p.pid, badVAddr); found && page.Valid {
		return
	}

	f, err := p.frames.Allocate()
	if errors.Is(err, frame.ErrExhausted) {
		p.logger.Printf("%s: no frame for page %d, killing the process",
			p.name, vpn)
		p.Exit(ExitKilled)

		return
	}

	if err != nil {
		log.Panicf("%s: cannot allocate frame: %v", p.name, err)
	}

	p.pageTable.Insert(vm.Page{
		PID:      p.pid,
		VAddr:    p.geometry.ComposeAddress(vpn, 0),
		PAddr:    p.geometry.ComposeAddress(uint64(f), 0),
		Frame:    uint64(f),
		PageSize: p.geometry.PageSize(),
		Valid:    true,
	})
}

func (p *Process) handleSyscall() {
	code := p.processor.ReadRegister(machine.RegV0)

	switch code {
	case SyscallHalt:
		p.Exit(0)
	case SyscallExit:
		status := int(int32(p.processor.ReadRegister(machine.RegA0)))
		p.Exit(status)
	default:
		p.logger.Printf("%s: unknown syscall %d, killing the process",
			p.name, code)
		p.Exit(ExitKilled)
	}
}

// Exit terminates the process with the given status and returns all its
// frames. Exiting a process that has already exited does nothing.
func (p *Process) Exit(status int) {
	p.lock.Lock()
	if p.exited {
		p.lock.Unlock()
		return
	}

	p.exited = true
	p.status = status
	p.lock.Unlock()

	for _, page := range p.pageTable.Pages(p.pid) {
		p.pageTable.Remove(p.pid, page.VAddr)

		err := p.frames.Free(frame.Frame(page.Frame))
		if err != nil {
			panic(fmt.Errorf("%s: page 0x%x: %w", p.name, page.VAddr, err))
		}
	}

	p.logger.Printf("%s: exited with status %d", p.name, status)
}
