// Package exception routes processor exceptions to the user process that the
// trapping thread runs on behalf of.
package exception

import (
	"errors"
	"fmt"

	"github.com/sarchlab/userkernel/machine"
	"github.com/sarchlab/userkernel/mem/vm"
	"github.com/sarchlab/userkernel/sim"
	"github.com/sarchlab/userkernel/threads"
)

// ErrNoProcessContext is the panic value when an exception is raised while
// the CPU is not running a user thread.
var ErrNoProcessContext = errors.New("exception raised outside of a user process")

// Hook positions of the router. The hook item is a Dispatch.
var (
	HookPosBeforeDispatch = &sim.HookPos{Name: "BeforeDispatch"}
	HookPosAfterDispatch  = &sim.HookPos{Name: "AfterDispatch"}
)

// A RegisterFile exposes the registers of the processor.
type RegisterFile interface {
	ReadRegister(reg int) uint64
}

// A ThreadTracker knows which thread currently owns the CPU.
type ThreadTracker interface {
	Current() (*threads.Thread, bool)
}

// A HandlerInstaller accepts the exception handler of the processor.
type HandlerInstaller interface {
	SetExceptionHandler(h machine.ExceptionHandler)
}

type pidOwner interface {
	PID() vm.PID
}

// Dispatch describes one exception being delivered.
type Dispatch struct {
	Thread  *threads.Thread
	Process threads.Process
	PID     vm.PID
	Cause   machine.ExceptionCause
}

// Router is the exception handler of the processor. It does not recover from
// any exception by itself.
type Router struct {
	sim.HookableBase

	name      string
	registers RegisterFile
	threads   ThreadTracker
}

// Name returns the name of the router.
func (r *Router) Name() string {
	return r.name
}

// Install registers the router as the exception handler of the processor.
func (r *Router) Install(processor HandlerInstaller) {
	processor.SetExceptionHandler(r)
}

// HandleException forwards the cause in the cause register to the process of
// the current thread. It panics with ErrNoProcessContext if the current thread
// has no process.
func (r *Router) HandleException() {
	thread, ok := r.threads.Current()
	if !ok {
		panic(fmt.Errorf("%w: no thread is running", ErrNoProcessContext))
	}

	process, ok := thread.Process()
	if !ok {
		panic(fmt.Errorf("%w: thread %s (%s) is a kernel thread",
			ErrNoProcessContext, thread.ID(), thread.Name()))
	}

	cause := machine.ExceptionCause(r.registers.ReadRegister(machine.RegCause))

	d := Dispatch{
		Thread:  thread,
		Process: process,
		Cause:   cause,
	}
	if owner, ok := process.(pidOwner); ok {
		d.PID = owner.PID()
	}

	r.invoke(HookPosBeforeDispatch, d)
	process.HandleException(cause)
	r.invoke(HookPosAfterDispatch, d)
}

func (r *Router) invoke(pos *sim.HookPos, d Dispatch) {
	if r.NumHooks() == 0 {
		return
	}

	r.InvokeHook(sim.HookCtx{
		Domain: r,
		Pos:    pos,
		Item:   d,
	})
}
