// Package tracing turns what the frame allocator and the exception router
// report through hooks into events that can be counted, logged or stored.
package tracing

// FrameEvent is a change in the frame inventory.
type FrameEvent struct {
	ID        string
	Allocator string
	What      string
	Frame     uint64
	NumFree   int
}

// ExceptionEvent is an exception being delivered to a process.
type ExceptionEvent struct {
	ID     string
	Router string
	What   string
	Thread string
	PID    uint32
	Cause  string
}

// A Tracer collects events.
type Tracer interface {
	RecordFrame(evt FrameEvent)
	RecordException(evt ExceptionEvent)
}
