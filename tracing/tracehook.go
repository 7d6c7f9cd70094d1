package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/userkernel/exception"
	"github.com/sarchlab/userkernel/mem/frame"
	"github.com/sarchlab/userkernel/sim"
)

// NewHook creates a hook that feeds a tracer. The hook can be attached to
// frame allocators and exception routers.
func NewHook(tracer Tracer) sim.Hook {
	return &traceHook{
		t:           tracer,
		idGenerator: sim.GetIDGenerator(),
	}
}

// CollectTrace lets the tracer collect events from a domain.
func CollectTrace(domain sim.NamedHookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(NewHook(tracer))
}

// A traceHook is a hook that converts hook contexts into events.
type traceHook struct {
	t           Tracer
	idGenerator sim.IDGenerator
}

// Func calls the tracer when the hook is triggered.
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case frame.Event:
		h.t.RecordFrame(FrameEvent{
			ID:        h.idGenerator.Generate(),
			Allocator: domainName(ctx),
			What:      ctx.Pos.Name,
			Frame:     uint64(item.Frame),
			NumFree:   item.NumFree,
		})
	case exception.Dispatch:
		h.t.RecordException(ExceptionEvent{
			ID:     h.idGenerator.Generate(),
			Router: domainName(ctx),
			What:   ctx.Pos.Name,
			Thread: item.Thread.Name(),
			PID:    uint32(item.PID),
			Cause:  item.Cause.String(),
		})
	}
}

func domainName(ctx sim.HookCtx) string {
	if named, ok := ctx.Domain.(sim.Named); ok {
		return named.Name()
	}

	return ""
}
