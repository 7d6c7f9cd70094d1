package tracing

import (
	"sync"

	"github.com/sarchlab/userkernel/exception"
)

var exceptionBeforeDispatch = exception.HookPosBeforeDispatch.Name

// CountingTracer counts events by what happened.
type CountingTracer struct {
	lock   sync.Mutex
	counts map[string]uint64
}

// NewCountingTracer creates a tracer with all counts at zero.
func NewCountingTracer() *CountingTracer {
	return &CountingTracer{
		counts: make(map[string]uint64),
	}
}

// RecordFrame counts a frame event.
func (t *CountingTracer) RecordFrame(evt FrameEvent) {
	t.count(evt.What)
}

// RecordException counts an exception event under its hook position and
// under its cause.
func (t *CountingTracer) RecordException(evt ExceptionEvent) {
	t.count(evt.What)

	if evt.What == exceptionBeforeDispatch {
		t.count(evt.Cause)
	}
}

func (t *CountingTracer) count(what string) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.counts[what]++
}

// Count returns how many times the given thing happened.
func (t *CountingTracer) Count(what string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.counts[what]
}

// Counts returns a copy of all the counts.
func (t *CountingTracer) Counts() map[string]uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	counts := make(map[string]uint64, len(t.counts))
	for k, v := range t.counts {
		counts[k] = v
	}

	return counts
}
