// Package machine models the processor the kernel runs on: its registers,
// its main memory, and the way a user access that cannot be translated is
// turned into an exception.
package machine

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/sarchlab/userkernel/mem/vm"
)

// ErrAccessFault is returned by Load and Store when the access still cannot
// be completed after the exception handler ran.
var ErrAccessFault = errors.New("access fault")

// Processor is a single-core processor with paged address translation.
type Processor struct {
	name         string
	pageSize     uint64
	numPhysPages int

	lock      sync.Mutex
	registers [NumUserRegisters]uint64
	memory    []byte
	pid       vm.PID
	pageTable vm.PageTable

	handler ExceptionHandler
}

// Name returns the name of the processor.
func (p *Processor) Name() string {
	return p.name
}

// PageSize returns the number of bytes in a page.
func (p *Processor) PageSize() uint64 {
	return p.pageSize
}

// NumPhysPages returns the number of physical page frames in main memory.
func (p *Processor) NumPhysPages() int {
	return p.numPhysPages
}

// MemorySize returns the size of main memory in bytes.
func (p *Processor) MemorySize() int {
	return len(p.memory)
}

// SetExceptionHandler installs the handler that is called on every
// exception. Only one handler can be installed.
func (p *Processor) SetExceptionHandler(h ExceptionHandler) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.handler != nil {
		panic("exception handler already installed")
	}

	p.handler = h
}

// ReadRegister returns the value of a user register.
func (p *Processor) ReadRegister(reg int) uint64 {
	registerMustBeValid(reg)

	p.lock.Lock()
	defer p.lock.Unlock()

	return p.registers[reg]
}

// WriteRegister sets the value of a user register.
func (p *Processor) WriteRegister(reg int, value uint64) {
	registerMustBeValid(reg)

	p.lock.Lock()
	defer p.lock.Unlock()

	p.registers[reg] = value
}

func registerMustBeValid(reg int) {
	if reg < 0 || reg >= NumUserRegisters {
		log.Panicf("register %d does not exist", reg)
	}
}

// PageFromAddress returns the page number of an address.
func (p *Processor) PageFromAddress(addr uint64) uint64 {
	return addr / p.pageSize
}

// OffsetFromAddress returns the offset of an address inside its page.
func (p *Processor) OffsetFromAddress(addr uint64) uint64 {
	return addr % p.pageSize
}

// MakeAddress returns the address of the given offset in the given page.
func (p *Processor) MakeAddress(page, offset uint64) uint64 {
	if offset >= p.pageSize {
		log.Panicf("offset %d out of page of size %d", offset, p.pageSize)
	}

	return page*p.pageSize + offset
}

// SwitchAddressSpace makes the processor translate user addresses through
// the pages that belong to the process.
func (p *Processor) SwitchAddressSpace(pid vm.PID, pageTable vm.PageTable) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.pid = pid
	p.pageTable = pageTable
}

// RaiseException records the cause and the bad address and calls the
// installed handler. The handler runs on the calling goroutine.
func (p *Processor) RaiseException(cause ExceptionCause, badVAddr uint64) {
	p.lock.Lock()
	p.registers[RegCause] = uint64(cause)
	p.registers[RegBadVAddr] = badVAddr
	handler := p.handler
	p.lock.Unlock()

	if handler == nil {
		log.Panicf("%s: %s raised with no exception handler installed",
			p.name, cause)
	}

	handler.HandleException()
}

// Load reads one byte of user memory.
func (p *Processor) Load(vAddr uint64) (byte, error) {
	var value byte

	err := p.access(vAddr, false, func(pAddr uint64) {
		value = p.memory[pAddr]
	})

	return value, err
}

// Store writes one byte of user memory.
func (p *Processor) Store(vAddr uint64, value byte) error {
	return p.access(vAddr, true, func(pAddr uint64) {
		p.memory[pAddr] = value
	})
}

// access translates the address and runs the operation on the physical
// address. After a page fault has been handled the translation is tried once
// more.
func (p *Processor) access(
	vAddr uint64,
	write bool,
	op func(pAddr uint64),
) error {
	cause, ok := p.tryAccess(vAddr, write, op)
	if ok {
		return nil
	}

	p.RaiseException(cause, vAddr)

	if cause == ExceptionPageFault {
		if _, ok = p.tryAccess(vAddr, write, op); ok {
			return nil
		}
	}

	return fmt.Errorf("%w: %s at address 0x%x", ErrAccessFault, cause, vAddr)
}

func (p *Processor) tryAccess(
	vAddr uint64,
	write bool,
	op func(pAddr uint64),
) (ExceptionCause, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.pageTable == nil {
		return ExceptionPageFault, false
	}

	page, found := p.pageTable.Find(p.pid, vAddr)
	if !found || !page.Valid {
		return ExceptionPageFault, false
	}

	if write && page.ReadOnly {
		return ExceptionReadOnly, false
	}

	pAddr := page.PAddr + p.OffsetFromAddress(vAddr)
	if pAddr >= uint64(len(p.memory)) {
		return ExceptionBusError, false
	}

	op(pAddr)

	if !page.Used || (write && !page.Dirty) {
		page.Used = true
		page.Dirty = page.Dirty || write
		p.pageTable.Update(page)
	}

	return 0, true
}
