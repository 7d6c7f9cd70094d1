package machine

import "fmt"

// ExceptionCause is the value the processor stores in RegCause when a user
// instruction traps.
type ExceptionCause int

// The causes of exceptions.
const (
	ExceptionSyscall ExceptionCause = iota
	ExceptionPageFault
	ExceptionTLBMiss
	ExceptionReadOnly
	ExceptionBusError
	ExceptionAddressError
	ExceptionOverflow
	ExceptionIllegalInstruction
)

var exceptionNames = []string{
	"syscall",
	"page fault",
	"TLB miss",
	"read-only",
	"bus error",
	"address error",
	"overflow",
	"illegal instruction",
}

func (c ExceptionCause) String() string {
	if c < 0 || int(c) >= len(exceptionNames) {
		return fmt.Sprintf("unknown exception %d", int(c))
	}

	return exceptionNames[c]
}

// An ExceptionHandler is called by the processor whenever a user access traps.
// When it is called, RegCause holds the cause and RegBadVAddr holds the
// offending address if there is one.
type ExceptionHandler interface {
	HandleException()
}

// User registers.
const (
	RegV0            = 2
	RegA0            = 4
	RegA1            = 5
	RegSP            = 29
	RegRA            = 31
	RegLo            = 32
	RegHi            = 33
	RegPC            = 34
	RegNextPC        = 35
	RegCause         = 36
	RegBadVAddr      = 37
	NumUserRegisters = 38
)
