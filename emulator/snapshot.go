package emulator

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/modvm/vm"
)

// snapshotEncMode is the canonical CBOR encoding, so that equal machine
// states encode to equal bytes.
var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: %v", err))
	}
	snapshotEncMode = em
}

// ModuleState is the mutable state of a loaded module.
type ModuleState struct {
	Id            int    `cbor:"id"`
	Start         int    `cbor:"start"`
	End           int    `cbor:"end"`
	CallerId      int    `cbor:"caller"`
	Entered       bool   `cbor:"entered"`
	Entries       int    `cbor:"entries"`
	EntryLocation int    `cbor:"entry"`
	RegisterCache []byte `cbor:"cache"`
}

// FrameState is a saved caller context.
type FrameState struct {
	Pc        int    `cbor:"pc"`
	Module    int    `cbor:"module"`
	Registers []byte `cbor:"registers"`
	Shared    bool   `cbor:"shared"`
}

// Snapshot is a serializable dump of the machine state.
type Snapshot struct {
	Pc        int           `cbor:"pc"`
	Module    int           `cbor:"module"`
	Registers []byte        `cbor:"registers"`
	Ticks     int           `cbor:"ticks"`
	Halted    bool          `cbor:"halted"`
	Done      bool          `cbor:"done"`
	Frames    []FrameState  `cbor:"frames"`
	Modules   []ModuleState `cbor:"modules"`
}

// Snapshot captures the current machine state.
func (emu *Emulator) Snapshot() (snap *Snapshot) {
	m := emu.Machine

	snap = &Snapshot{
		Pc:        m.Pc,
		Module:    m.CurrentId(),
		Registers: append([]byte(nil), m.Register[:]...),
		Ticks:     m.Ticks,
		Halted:    m.Halted,
		Done:      m.Done,
	}

	for _, frame := range m.Stack.Data {
		module := vm.ROOT_ID
		if frame.Module != nil {
			module = frame.Module.Id
		}
		snap.Frames = append(snap.Frames, FrameState{
			Pc:        frame.Pc,
			Module:    module,
			Registers: append([]byte(nil), frame.Registers[:]...),
			Shared:    frame.Shared,
		})
	}

	for mod := range m.Modules.Occupied() {
		snap.Modules = append(snap.Modules, ModuleState{
			Id:            mod.Id,
			Start:         mod.Start,
			End:           mod.End,
			CallerId:      mod.CallerId,
			Entered:       mod.Entered,
			Entries:       mod.Entries,
			EntryLocation: mod.EntryLocation,
			RegisterCache: append([]byte(nil), mod.RegisterCache[:]...),
		})
	}

	return
}

// MarshalSnapshot encodes a snapshot as canonical CBOR.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	return snapshotEncMode.Marshal(snap)
}

// UnmarshalSnapshot decodes a CBOR snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
