package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
)

var _vm_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("0x%x", MEMORY_SIZE),
	"MODULE_LIMIT":   fmt.Sprintf("0x%x", MODULE_LIMIT),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"STACK_LIMIT":    fmt.Sprintf("%d", STACK_LIMIT),
	"NO_CALLER":      "0xff",
}

// Defines returns the machine constants visible to the assembler.
func Defines() iter.Seq2[string, string] {
	return maps.All(_vm_defines)
}

// Machine is the execution engine.
//
// Execution starts at address 0 of the root image. START and RUN push a
// frame on the explicit call stack and continue in the private memory of
// the invoked module; RET, or reaching the end of a module body, pops the
// frame and resumes the caller.
type Machine struct {
	Verbose bool          // Set to enable verbose logging.
	Tracer  Tracer        // Receives trace events, if set.
	Output  io.ByteWriter // Receives OUT bytes; discarded if nil.

	MaxDepth int // Call depth limit; STACK_LIMIT if zero.
	MaxTicks int // Instruction budget; unlimited if zero.

	Image    Memory      // Root program image.
	Modules  ModuleTable // Loaded modules.
	Pc       int         // Program counter into the current memory.
	Register Registers   // Live register file.
	Current  *Module     // Current module, nil at root.
	Stack    CallStack   // Saved caller contexts.

	Ticks  int  // Instructions executed since reset.
	Halted bool // Set if the run stopped on HALT.
	Done   bool // Set once the run has stopped.
}

// NewMachine creates a new machine with an empty image.
func NewMachine() (m *Machine) {
	m = &Machine{}
	m.Modules.Reset()
	return
}

// Reset loads image into the root memory, rebuilds the module table, and
// clears the execution context.
func (m *Machine) Reset(image []byte) (err error) {
	if m.Verbose {
		log.Printf("vm: reset")
	}

	m.Pc = 0
	m.Register.Reset()
	m.Current = nil
	m.Stack.Reset()
	m.Stack.Limit = m.MaxDepth
	m.Ticks = 0
	m.Halted = false
	m.Done = false

	err = m.Image.Load(image)
	if err != nil {
		return
	}

	err = m.Modules.Load(&m.Image, m.tracer())
	if err != nil {
		return
	}

	if m.Verbose {
		log.Printf("vm: %d modules loaded", m.Modules.Count())
	}

	return
}

func (m *Machine) tracer() Tracer {
	if m.Tracer == nil {
		return nopTracer{}
	}
	return m.Tracer
}

func (m *Machine) trace(kind EventKind, pc int, value byte) {
	m.tracer().Trace(Event{
		Kind:      kind,
		Pc:        pc,
		Module:    m.CurrentId(),
		Value:     value,
		Registers: m.Register,
	})
}

// CurrentId returns the identifier of the current module, or ROOT_ID.
func (m *Machine) CurrentId() int {
	if m.Current == nil {
		return ROOT_ID
	}
	return m.Current.Id
}

// Memory returns the memory instructions are fetched from.
func (m *Machine) Memory() *Memory {
	if m.Current == nil {
		return &m.Image
	}
	return &m.Current.Memory
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	module := "root"
	if m.Current != nil {
		module = fmt.Sprintf("0x%02x", m.Current.Id)
	}
	text += fmt.Sprintf("% 6s: 0x%02x\n", "pc", m.Pc)
	text += fmt.Sprintf("% 6s: %v\n", "module", module)
	text += fmt.Sprintf("% 6s: %d\n", "depth", m.Stack.Depth())
	for n, value := range m.Register {
		text += fmt.Sprintf("% 6s: 0x%02x\n", (AX + Register(n)).String(), value)
	}

	return
}

// Tick executes a single instruction.
// Returns ErrStopped once the run has ended.
func (m *Machine) Tick() (err error) {
	if m.Done {
		err = ErrStopped
		return
	}

	if m.MaxTicks > 0 && m.Ticks >= m.MaxTicks {
		err = &ErrFault{Pc: m.Pc, Module: m.CurrentId(), Err: ErrBudgetExhausted}
		return
	}

	if m.Current != nil && m.Pc >= m.Current.End {
		// End of the module body.
		m.ret()
		m.Ticks++
		return
	}

	if m.Current == nil && m.Pc >= MEMORY_SIZE {
		// Ran off the end of the image.
		m.Done = true
		err = ErrStopped
		return
	}

	ins, err := Decode(m.Memory(), m.Pc)
	if err != nil {
		err = &ErrFault{Pc: m.Pc, Module: m.CurrentId(), Op: ins.Op, Err: err}
		return
	}

	err = m.Execute(ins)
	if err != nil {
		return
	}

	m.Ticks++
	return
}

// Run ticks the machine until the run ends, fails, or ctx is done.
func (m *Machine) Run(ctx context.Context) (err error) {
	for {
		err = ctx.Err()
		if err != nil {
			err = &ErrFault{Pc: m.Pc, Module: m.CurrentId(), Err: err}
			return
		}

		err = m.Tick()
		if errors.Is(err, ErrStopped) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// Execute applies a single decoded instruction.
// On failure the execution context is left unchanged.
func (m *Machine) Execute(ins Instruction) (err error) {
	defer func() {
		if err != nil {
			err = &ErrFault{Pc: ins.Addr, Module: m.CurrentId(), Op: ins.Op, Err: err}
		}
	}()

	if len(ins.Args) != len(ins.Op.Operands()) {
		err = ErrUnknownOpcode
		return
	}

	if m.Verbose {
		log.Printf("%v:%02x: %v", m.CurrentId(), ins.Addr, ins)
	}

	next_pc := ins.Addr + ins.Width()
	args := ins.Args

	switch ins.Op {
	case NOP:
		// pass
	case MOVE:
		err = m.Register.Set(Register(args[0]), args[1])
	case ADD:
		var a, b byte
		a, err = m.Register.Get(Register(args[0]))
		if err != nil {
			return
		}
		b, err = m.Register.Get(Register(args[1]))
		if err != nil {
			return
		}
		// Wraps modulo 256.
		err = m.Register.Set(Register(args[0]), a+b)
	case START, RUN:
		err = m.call(int(args[0]), next_pc, ins.Op == RUN)
		return
	case RET:
		m.ret()
		return
	case HALT:
		m.trace(EVENT_HALT, ins.Addr, 0)
		m.Halted = true
		m.Done = true
	case MODULE:
		// Declarations are consumed by the loader; skip the whole region.
		var mod *Module
		mod, err = m.Modules.Get(int(args[0]))
		if m.Current != nil || err != nil || mod.Declared != ins.Addr {
			err = ErrMalformedModule
			return
		}
		next_pc = mod.End + 1
	case CID:
		caller := byte(0xff)
		if m.Current != nil && m.Current.CallerId != ROOT_ID {
			caller = byte(m.Current.CallerId)
		}
		err = m.Register.Set(Register(args[0]), caller)
	case LD:
		var value byte
		value, err = m.Memory().Read(int(args[1]))
		if err != nil {
			return
		}
		err = m.Register.Set(Register(args[0]), value)
	case LDC:
		if m.Current == nil {
			err = ErrNoModule
			return
		}
		var value byte
		value, err = m.Current.RegisterCache.Get(Register(args[1]))
		if err != nil {
			return
		}
		err = m.Register.Set(Register(args[0]), value)
	case OUT:
		var value byte
		value, err = m.Register.Get(Register(args[0]))
		if err != nil {
			return
		}
		if m.Output != nil {
			err = m.Output.WriteByte(value)
			if err != nil {
				return
			}
		}
		m.trace(EVENT_OUTPUT, ins.Addr, value)
	default:
		err = ErrUnknownOpcode
	}

	if err != nil {
		return
	}

	m.Pc = next_pc

	return
}

// call enters module id, returning to ret_pc in the current context.
// A shared call keeps the caller's registers in both directions.
func (m *Machine) call(id int, ret_pc int, shared bool) (err error) {
	mod, err := m.Modules.Get(id)
	if err != nil {
		return
	}

	saved := m.Register.Snapshot()
	err = m.Stack.Push(Frame{Pc: ret_pc, Module: m.Current, Registers: saved, Shared: shared})
	if err != nil {
		return
	}

	mod.RegisterCache = saved
	mod.CallerId = m.CurrentId()
	mod.Entered = !mod.Entered
	mod.Entries++
	mod.EntryLocation = mod.Start

	if !shared {
		m.Register.Reset()
	}
	m.Current = mod
	m.Pc = mod.Start

	if m.Verbose {
		log.Printf("vm: enter module 0x%02x from %v, depth %d", mod.Id, mod.CallerId, m.Stack.Depth())
	}
	m.trace(EVENT_MODULE_ENTER, mod.Start, 0)

	return
}

// ret leaves the current context. At the root, the run ends.
func (m *Machine) ret() {
	m.trace(EVENT_REGISTER_DUMP, m.Pc, 0)

	frame, ok := m.Stack.Pop()
	if !ok {
		m.Done = true
		return
	}

	if !frame.Shared {
		m.Register.Restore(frame.Registers)
	}

	m.Current = frame.Module
	m.Pc = frame.Pc

	if m.Verbose {
		log.Printf("vm: return to %v:%02x", m.CurrentId(), m.Pc)
	}
	m.trace(EVENT_MODULE_RETURN, m.Pc, 0)
}
