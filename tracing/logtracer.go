package tracing

import (
	"io"

	"github.com/sarchlab/userkernel/exception"
	"github.com/sarchlab/userkernel/mem/frame"
	"github.com/sarchlab/userkernel/sim"
)

// LogTracer is a log hook that prints every frame and exception event.
type LogTracer struct {
	sim.LogHookBase
}

// NewLogTracer creates a LogTracer that writes to w.
func NewLogTracer(w io.Writer) *LogTracer {
	return &LogTracer{LogHookBase: sim.NewLogHookBase(w)}
}

// Func writes the event to the log.
func (t *LogTracer) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case frame.Event:
		t.LogCtx(ctx, "frame=%d free=%d", item.Frame, item.NumFree)
	case exception.Dispatch:
		t.LogCtx(ctx, "thread=%s pid=%d cause=%s",
			item.Thread.Name(), item.PID, item.Cause)
	}
}

var _ sim.LogHook = (*LogTracer)(nil)
