package sim

import (
	"io"
	"log"
)

// A LogHook is a hook that is responsible for writing what happens inside a
// domain to a log.
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks.
type LogHookBase struct {
	*log.Logger
}

// NewLogHookBase creates a LogHookBase that writes to the given writer. A nil
// writer discards everything.
func NewLogHookBase(w io.Writer) LogHookBase {
	if w == nil {
		w = io.Discard
	}

	return LogHookBase{Logger: log.New(w, "", 0)}
}

// LogCtx writes a single line that names the domain and the hook position.
func (h LogHookBase) LogCtx(ctx HookCtx, format string, args ...any) {
	prefix := "<unnamed>"
	if named, ok := ctx.Domain.(Named); ok {
		prefix = named.Name()
	}

	pos := "<none>"
	if ctx.Pos != nil {
		pos = ctx.Pos.Name
	}

	h.Printf("%s %s "+format, append([]any{prefix, pos}, args...)...)
}
