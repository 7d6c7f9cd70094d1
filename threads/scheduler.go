package threads

import (
	"sync"

	"github.com/sarchlab/userkernel/sim"
)

// Scheduler runs threads one at a time on the single CPU and remembers which
// thread currently owns it.
type Scheduler struct {
	idGenerator sim.IDGenerator

	cpu sync.Mutex

	lock    sync.RWMutex
	current *Thread
}

// NewScheduler creates a scheduler with no running thread.
func NewScheduler() *Scheduler {
	return &Scheduler{
		idGenerator: sim.GetIDGenerator(),
	}
}

// NewThread creates a thread. A nil process makes a kernel thread.
func (s *Scheduler) NewThread(name string, process Process) *Thread {
	return &Thread{
		id:      s.idGenerator.Generate(),
		name:    name,
		process: process,
		done:    make(chan struct{}),
	}
}

// Current returns the thread that owns the CPU.
func (s *Scheduler) Current() (*Thread, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.current, s.current != nil
}

// Run waits for the CPU, runs the body as the given thread and gives the CPU
// up when the body returns or panics. Run marks the thread as finished, so a
// thread can only run once.
func (s *Scheduler) Run(t *Thread, body func()) {
	s.cpu.Lock()
	defer s.cpu.Unlock()

	s.setCurrent(t)
	defer func() {
		s.setCurrent(nil)
		close(t.done)
	}()

	body()
}

// Fork runs the thread in a new goroutine.
func (s *Scheduler) Fork(t *Thread, body func()) {
	go s.Run(t, body)
}

func (s *Scheduler) setCurrent(t *Thread) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.current = t
}
