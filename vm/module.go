package vm

import (
	"iter"
)

const (
	MODULE_LIMIT = 0x100 // One slot per possible module identifier.
	ROOT_ID      = -1    // Caller id of the root context.
)

// Module is a callable subroutine extracted from the image.
//
// Memory mirrors the image offsets of the module body: only the body
// bytes are copied, at their original addresses, so absolute addresses
// encoded in the body never need relocation.
type Module struct {
	Id       int    // Module identifier.
	Occupied bool   // Set if the slot holds a loaded module.
	Memory   Memory // Private instruction storage.

	Declared int // Address of the MODULE opcode in the image.
	Start    int // Address of the first body instruction.
	End      int // Address of the terminating RET in the image.

	RegisterCache Registers // Caller registers at the most recent entry.
	CallerId      int       // Caller module id, or ROOT_ID.
	Entered       bool      // Toggled on every entry.
	Entries       int       // Number of entries since load.
	EntryLocation int       // Program counter of the body at entry.
}

// Contains returns true if addr is inside the declaration, header and
// terminator included.
func (mod *Module) Contains(addr int) bool {
	return mod.Occupied && addr >= mod.Declared && addr <= mod.End
}

// ModuleTable is the fixed-capacity registry of modules, indexed by id.
type ModuleTable [MODULE_LIMIT]Module

// Reset empties every slot.
func (table *ModuleTable) Reset() {
	for n := range table {
		table[n] = Module{Id: n, CallerId: ROOT_ID}
	}
}

// Get returns the occupied module with the identifier id.
func (table *ModuleTable) Get(id int) (mod *Module, err error) {
	if id < 0 || id >= MODULE_LIMIT || !table[id].Occupied {
		err = ErrUnknownModule
		return
	}

	mod = &table[id]
	return
}

// Occupied iterates over the loaded modules, in identifier order.
func (table *ModuleTable) Occupied() iter.Seq[*Module] {
	return func(yield func(mod *Module) bool) {
		for n := range table {
			if !table[n].Occupied {
				continue
			}
			if !yield(&table[n]) {
				return
			}
		}
	}
}

// Count returns the number of loaded modules.
func (table *ModuleTable) Count() (count int) {
	for range table.Occupied() {
		count++
	}
	return
}

// Load rebuilds the table from the declarations in image.
//
// The image is scanned on instruction boundaries. Each `MODULE id`
// header starts a declaration whose body runs up to the first RET
// instruction; the terminator is not copied. Declarations must not nest
// or repeat an identifier, and must be terminated before the end of the
// image.
func (table *ModuleTable) Load(image *Memory, tracer Tracer) (err error) {
	if tracer == nil {
		tracer = nopTracer{}
	}

	table.Reset()

	addr := 0
	for addr < MEMORY_SIZE {
		op := Opcode(image.Data[addr])
		if op != MODULE {
			addr += op.Width()
			continue
		}

		if addr+1 >= MEMORY_SIZE {
			err = &ErrLoad{Addr: addr, Id: ROOT_ID, Err: ErrMalformedModule}
			return
		}

		id := int(image.Data[addr+1])
		mod := &table[id]
		if mod.Occupied {
			err = &ErrLoad{Addr: addr, Id: id, Err: ErrDuplicateModule}
			return
		}

		tracer.Trace(Event{Kind: EVENT_MODULE_FOUND, Pc: addr, Module: id})

		var end int
		end, err = loadBody(mod, image, addr+2, tracer)
		if err != nil {
			err = &ErrLoad{Addr: addr, Id: id, Err: err}
			return
		}

		mod.Occupied = true
		mod.Declared = addr
		mod.Start = addr + 2
		mod.End = end

		addr = end + 1
	}

	return
}

// loadBody copies the body starting at addr into the private memory of
// mod, and returns the address of the terminating RET.
func loadBody(mod *Module, image *Memory, addr int, tracer Tracer) (end int, err error) {
	for addr < MEMORY_SIZE {
		op := Opcode(image.Data[addr])
		switch op {
		case RET:
			end = addr
			return
		case MODULE:
			// Nested declaration
			err = ErrMalformedModule
			return
		}

		width := op.Width()
		if addr+width > MEMORY_SIZE {
			break
		}

		for n := range width {
			value := image.Data[addr+n]
			mod.Memory.Data[addr+n] = value
			tracer.Trace(Event{Kind: EVENT_INSTRUCTION_STORED, Pc: addr + n, Module: mod.Id, Value: value})
		}
		addr += width
	}

	// No terminating RET.
	err = ErrMalformedModule
	return
}
