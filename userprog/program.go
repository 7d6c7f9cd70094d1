package userprog

import (
	"fmt"

	"github.com/sarchlab/userkernel/machine"
	"github.com/sarchlab/userkernel/threads"
)

// StepKind is what a step of a program does.
type StepKind int

// Kinds of steps.
const (
	StepLoad StepKind = iota
	StepStore
	StepCheck
	StepSyscall
)

func (k StepKind) String() string {
	switch k {
	case StepLoad:
		return "load"
	case StepStore:
		return "store"
	case StepCheck:
		return "check"
	case StepSyscall:
		return "syscall"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// A Step is one memory access or system call of a program.
type Step struct {
	Kind  StepKind
	VAddr uint64
	Value byte
	Code  uint64
	Arg   uint64
}

// Load reads one byte.
func Load(vAddr uint64) Step {
	return Step{Kind: StepLoad, VAddr: vAddr}
}

// Store writes one byte.
func Store(vAddr uint64, value byte) Step {
	return Step{Kind: StepStore, VAddr: vAddr, Value: value}
}

// Check reads one byte and kills the process if it is not the expected one.
func Check(vAddr uint64, want byte) Step {
	return Step{Kind: StepCheck, VAddr: vAddr, Value: want}
}

// Syscall makes a system call with one argument.
func Syscall(code, arg uint64) Step {
	return Step{Kind: StepSyscall, Code: code, Arg: arg}
}

// A Program is the trace of memory accesses and system calls a process makes.
// A program that runs past its last step exits with status 0.
type Program struct {
	Name  string
	Steps []Step
}

// TouchPages returns a program that writes one byte to each of n pages,
// reads every byte back and exits with status 0.
func TouchPages(n int, pageSize uint64) Program {
	prog := Program{Name: fmt.Sprintf("touch-%d", n)}

	for i := 0; i < n; i++ {
		prog.Steps = append(prog.Steps,
			Store(uint64(i)*pageSize, byte(i+1)))
	}

	for i := 0; i < n; i++ {
		prog.Steps = append(prog.Steps,
			Check(uint64(i)*pageSize, byte(i+1)))
	}

	prog.Steps = append(prog.Steps, Syscall(SyscallExit, 0))

	return prog
}

// Execute forks a thread that runs the program as this process.
func (p *Process) Execute(prog Program) *threads.Thread {
	t := p.scheduler.NewThread(p.name, p)

	p.scheduler.Fork(t, func() {
		p.run(prog)
	})

	return t
}

func (p *Process) run(prog Program) {
	p.processor.SwitchAddressSpace(p.pid, p.pageTable)

	for i, step := range prog.Steps {
		if p.Exited() {
			return
		}

		err := p.step(step)
		if err != nil && !p.Exited() {
			p.logger.Printf("%s: %s step %d of %s failed: %v",
				p.name, step.Kind, i, prog.Name, err)
			p.Exit(ExitKilled)
		}
	}

	p.Exit(0)
}

func (p *Process) step(s Step) error {
	switch s.Kind {
	case StepLoad:
		_, err := p.processor.Load(s.VAddr)
		return err
	case StepStore:
		return p.processor.Store(s.VAddr, s.Value)
	case StepCheck:
		got, err := p.processor.Load(s.VAddr)
		if err != nil {
			return err
		}

		if got != s.Value {
			return fmt.Errorf("read 0x%x at 0x%x, want 0x%x",
				got, s.VAddr, s.Value)
		}

		return nil
	case StepSyscall:
		p.processor.WriteRegister(machine.RegV0, s.Code)
		p.processor.WriteRegister(machine.RegA0, s.Arg)
		p.processor.RaiseException(machine.ExceptionSyscall, 0)

		return nil
	default:
		return fmt.Errorf("unknown step %s", s.Kind)
	}
}
