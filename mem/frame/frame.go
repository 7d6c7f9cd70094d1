// Package frame manages the inventory of physical page frames.
//
// Every frame is either free or allocated. The Allocator is the only owner of
// that state and serializes all access to it with a single lock. Allocation
// picks the lowest free frame and never waits for a frame to be released;
// running out of frames is reported with ErrExhausted.
package frame

import (
	"errors"
	"fmt"

	"github.com/sarchlab/userkernel/sim"
)

// Frame is the index of a physical page frame.
type Frame uint64

var (
	// ErrExhausted is returned by Allocate when no frame is free.
	ErrExhausted = errors.New("physical frames exhausted")

	// ErrInvalidFrame is returned by Free when the frame cannot be returned to
	// the inventory.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrDoubleFree is returned by Free when the frame is already free. It
	// wraps ErrInvalidFrame.
	ErrDoubleFree = fmt.Errorf("%w: frame is already free", ErrInvalidFrame)
)

// Hook positions of the allocator. The hook item is an Event.
var (
	HookPosFrameAllocated  = &sim.HookPos{Name: "FrameAllocated"}
	HookPosFrameFreed      = &sim.HookPos{Name: "FrameFreed"}
	HookPosFramesExhausted = &sim.HookPos{Name: "FramesExhausted"}
)

// Event describes an inventory change. NumFree is the number of free frames
// right after the change.
type Event struct {
	Frame   Frame
	NumFree int
}
