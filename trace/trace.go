// Package trace provides sinks for the machine trace events.
package trace

import (
	"github.com/tliron/commonlog"

	"github.com/ezrec/modvm/translate"
	"github.com/ezrec/modvm/vm"
)

// Logger writes trace events to a commonlog logger.
// Loader events are logged at debug level, machine events at info level.
type Logger struct {
	Log commonlog.Logger
}

var _ vm.Tracer = (*Logger)(nil)

var f = translate.From

// NewLogger creates a Logger for the named commonlog logger.
func NewLogger(name string) *Logger {
	return &Logger{Log: commonlog.GetLogger(name)}
}

func where(id int) string {
	if id == vm.ROOT_ID {
		return "root"
	}
	return f("module 0x%02x", id)
}

// Trace logs a single event.
func (tl *Logger) Trace(ev vm.Event) {
	switch ev.Kind {
	case vm.EVENT_MODULE_FOUND:
		tl.Log.Debugf("%v: module found at 0x%04x with id %d", ev.Kind, ev.Pc, ev.Module)
	case vm.EVENT_INSTRUCTION_STORED:
		tl.Log.Debugf("%v: stored instruction (0x%02x) at 0x%04x", ev.Kind, ev.Value, ev.Pc)
	case vm.EVENT_REGISTER_DUMP:
		tl.Log.Infof("%v: %v pc 0x%02x ax 0x%02x bx 0x%02x cx 0x%02x dx 0x%02x", ev.Kind, where(ev.Module), ev.Pc,
			ev.Registers[0], ev.Registers[1], ev.Registers[2], ev.Registers[3])
	case vm.EVENT_OUTPUT:
		tl.Log.Infof("%v: %v pc 0x%02x value 0x%02x", ev.Kind, where(ev.Module), ev.Pc, ev.Value)
	default:
		tl.Log.Infof("%v: %v pc 0x%02x", ev.Kind, where(ev.Module), ev.Pc)
	}
}

// Recorder keeps trace events in memory.
type Recorder struct {
	Events []vm.Event
}

var _ vm.Tracer = (*Recorder)(nil)

func (tr *Recorder) Trace(ev vm.Event) {
	tr.Events = append(tr.Events, ev)
}

// Kind returns the recorded events of a kind, in order.
func (tr *Recorder) Kind(kind vm.EventKind) (events []vm.Event) {
	for _, ev := range tr.Events {
		if ev.Kind == kind {
			events = append(events, ev)
		}
	}
	return
}

// Reset drops all recorded events.
func (tr *Recorder) Reset() {
	tr.Events = nil
}

// Tee fans events out to several tracers.
type Tee []vm.Tracer

func (tt Tee) Trace(ev vm.Event) {
	for _, tracer := range tt {
		if tracer != nil {
			tracer.Trace(ev)
		}
	}
}
