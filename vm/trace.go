package vm

// EventKind is the type of a trace event.
type EventKind int

//go:generate go tool stringer -linecomment -type=EventKind
const (
	EVENT_MODULE_FOUND       = EventKind(0) // module-found
	EVENT_INSTRUCTION_STORED = EventKind(1) // instruction-stored
	EVENT_MODULE_ENTER       = EventKind(2) // module-enter
	EVENT_MODULE_RETURN      = EventKind(3) // module-return
	EVENT_REGISTER_DUMP      = EventKind(4) // register-dump
	EVENT_OUTPUT             = EventKind(5) // output
	EVENT_HALT               = EventKind(6) // halt
)

// Event is an observation of loader or machine activity.
type Event struct {
	Kind      EventKind
	Pc        int       // Address the event refers to.
	Module    int       // Module id, or ROOT_ID.
	Value     byte      // Stored or output byte.
	Registers Registers // Register file at the time of the event.
}

// Tracer receives trace events. Tracers must not alter machine state.
type Tracer interface {
	Trace(ev Event)
}

// TracerFunc adapts a function to a Tracer.
type TracerFunc func(ev Event)

func (fn TracerFunc) Trace(ev Event) {
	fn(ev)
}

type nopTracer struct{}

func (nopTracer) Trace(Event) {}
