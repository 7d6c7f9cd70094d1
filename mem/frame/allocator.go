package frame

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/sarchlab/userkernel/sim"
)

// Allocator hands out and takes back physical frames.
type Allocator struct {
	sim.HookableBase

	name string

	lock      sync.Mutex
	allocated *bitset.BitSet
	numFrames uint
	numFree   uint
}

// Name returns the name of the allocator.
func (a *Allocator) Name() string {
	return a.name
}

// NumFrames returns the number of frames managed by the allocator.
func (a *Allocator) NumFrames() int {
	return int(a.numFrames)
}

// NumFree returns the number of frames that are currently free.
func (a *Allocator) NumFree() int {
	a.lock.Lock()
	defer a.lock.Unlock()

	return int(a.numFree)
}

// IsAllocated tells if the frame is currently handed out.
func (a *Allocator) IsAllocated(f Frame) bool {
	a.lock.Lock()
	defer a.lock.Unlock()

	if !a.inRange(f) {
		return false
	}

	return a.allocated.Test(uint(f))
}

// Allocate removes the lowest-index free frame from the inventory and returns
// it. It returns ErrExhausted right away if no frame is free.
func (a *Allocator) Allocate() (Frame, error) {
	f, numFree, err := a.allocate()
	if err != nil {
		a.invoke(HookPosFramesExhausted, Event{NumFree: numFree})
		return 0, err
	}

	a.invoke(HookPosFrameAllocated, Event{Frame: f, NumFree: numFree})

	return f, nil
}

func (a *Allocator) allocate() (Frame, int, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.numFree == 0 {
		return 0, 0, ErrExhausted
	}

	index, found := a.allocated.NextClear(0)
	if !found || index >= a.numFrames {
		panic("free count is positive but no free frame is found")
	}

	a.allocated.Set(index)
	a.numFree--

	return Frame(index), int(a.numFree), nil
}

// Free puts the frame back into the inventory. Frames outside of the
// inventory and frames that are already free are rejected and the inventory
// stays unchanged.
func (a *Allocator) Free(f Frame) error {
	numFree, err := a.free(f)
	if err != nil {
		return err
	}

	a.invoke(HookPosFrameFreed, Event{Frame: f, NumFree: numFree})

	return nil
}

func (a *Allocator) free(f Frame) (int, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if !a.inRange(f) {
		return 0, fmt.Errorf("%w: frame %d is outside of [0, %d)",
			ErrInvalidFrame, f, a.numFrames)
	}

	if !a.allocated.Test(uint(f)) {
		return 0, fmt.Errorf("%w: frame %d", ErrDoubleFree, f)
	}

	a.allocated.Clear(uint(f))
	a.numFree++

	return int(a.numFree), nil
}

func (a *Allocator) inRange(f Frame) bool {
	return uint64(f) < uint64(a.numFrames)
}

func (a *Allocator) invoke(pos *sim.HookPos, evt Event) {
	if a.NumHooks() == 0 {
		return
	}

	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    pos,
		Item:   evt,
	})
}
