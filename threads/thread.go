// Package threads provides the threads of control the kernel runs and the
// single-CPU scheduler that tells which of them is running.
package threads

import (
	"github.com/sarchlab/userkernel/machine"
)

// A Process is the user process a thread executes on behalf of.
type Process interface {
	HandleException(cause machine.ExceptionCause)
}

// A Thread is a thread of control. User threads carry the process they run;
// kernel threads carry none.
type Thread struct {
	id      string
	name    string
	process Process
	done    chan struct{}
}

// ID returns the unique ID of the thread.
func (t *Thread) ID() string {
	return t.id
}

// Name returns the name of the thread.
func (t *Thread) Name() string {
	return t.name
}

// Process returns the process of a user thread. The bool is false for kernel
// threads.
func (t *Thread) Process() (Process, bool) {
	return t.process, t.process != nil
}

// Join waits until the thread finishes. A thread that was never forked is
// considered finished once it has run.
func (t *Thread) Join() {
	<-t.done
}
