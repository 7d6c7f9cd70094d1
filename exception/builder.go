package exception

// A Builder can build exception routers.
type Builder struct {
	registers RegisterFile
	threads   ThreadTracker
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithRegisterFile sets where the router reads the cause register from.
func (b Builder) WithRegisterFile(r RegisterFile) Builder {
	b.registers = r
	return b
}

// WithThreadTracker sets where the router finds the current thread.
func (b Builder) WithThreadTracker(t ThreadTracker) Builder {
	b.threads = t
	return b
}

// Build creates a new router.
func (b Builder) Build(name string) *Router {
	if b.registers == nil {
		panic("router requires a register file")
	}

	if b.threads == nil {
		panic("router requires a thread tracker")
	}

	return &Router{
		name:      name,
		registers: b.registers,
		threads:   b.threads,
	}
}
