package tracing

import (
	"github.com/sarchlab/userkernel/datarecording"
)

const (
	frameTable     = "frame_events"
	exceptionTable = "exception_events"
)

// DBTracer stores events into a data recorder, one table per kind of event.
type DBTracer struct {
	backend datarecording.DataRecorder
}

// NewDBTracer creates the event tables in the recorder and returns a tracer
// that writes to them.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	backend.CreateTable(frameTable, FrameEvent{})
	backend.CreateTable(exceptionTable, ExceptionEvent{})

	return &DBTracer{backend: backend}
}

// RecordFrame stores a frame event.
func (t *DBTracer) RecordFrame(evt FrameEvent) {
	t.backend.InsertData(frameTable, evt)
}

// RecordException stores an exception event.
func (t *DBTracer) RecordException(evt ExceptionEvent) {
	t.backend.InsertData(exceptionTable, evt)
}

// Flush writes the buffered events to the database.
func (t *DBTracer) Flush() {
	t.backend.Flush()
}
