// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	stdio "io"
	"iter"
	"maps"

	"github.com/ezrec/modvm/config"
	"github.com/ezrec/modvm/internal"
	"github.com/ezrec/modvm/io"
	"github.com/ezrec/modvm/vm"
)

// Emulator state. Machine + program listing + IO channels.
type Emulator struct {
	Verbose     bool        // If set, enables verbose logging.
	*vm.Machine             // Reference to the machine simulation.
	Program     *vm.Program // Reference to the current program listing, if any.

	Config *config.Config // Machine configuration.
	Rom    io.Rom         // Program image channel.
	Tape   io.Tape        // OUT channel.
}

// NewEmulator creates a new emulator. A nil cfg selects the defaults.
func NewEmulator(cfg *config.Config) (emu *Emulator) {
	if cfg == nil {
		cfg = config.Default()
	}

	emu = &Emulator{
		Machine: vm.NewMachine(),
		Program: &vm.Program{},
		Config:  cfg,
	}

	emu.Verbose = cfg.Trace.Verbose
	emu.Machine.Output = &emu.Tape

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"MAX_DEPTH": fmt.Sprintf("%d", emu.Config.Machine.MaxDepth),
		"MAX_TICKS": fmt.Sprintf("%d", emu.Config.Machine.MaxTicks),
	}

	return internal.IterSeq2Concat(maps.All(defines),
		vm.Defines(),
		emu.Rom.Defines(),
		emu.Tape.Defines(),
	)
}

// Assemble assembles source text into the program listing and image.
func (emu *Emulator) Assemble(input stdio.Reader) (err error) {
	asm := &vm.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Rom.Data = prog.Image()

	return
}

// LoadImage loads a binary image. The program listing is dropped.
func (emu *Emulator) LoadImage(input stdio.Reader) (err error) {
	_, err = emu.Rom.ReadFrom(input)
	if err != nil {
		return
	}

	emu.Program = &vm.Program{}
	return
}

// Reset the machine to run the current image.
func (emu *Emulator) Reset() (err error) {
	emu.Config.Apply(emu.Machine)
	emu.Machine.Verbose = emu.Verbose

	emu.Tape.Capacity = emu.Config.Output.Capacity
	emu.Tape.Rewind()

	err = emu.Machine.Reset(emu.Rom.Image())
	if err != nil {
		var load *vm.ErrLoad
		if errors.As(err, &load) {
			err = emu.locate(load.Addr, err)
		}
		return
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Machine.Ticks
}

// LineNo returns the source line number of the next instruction.
// Module memory keeps image offsets, so the listing applies to module
// bodies as well as the root.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Machine.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// locate wraps err with the source line of addr, when known.
func (emu *Emulator) locate(addr int, err error) error {
	dbg := emu.Program.Debug(addr)
	if dbg.Line == nil {
		return err
	}

	return &ErrRuntime{LineNo: dbg.LineNo, Err: err}
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	pc := emu.Machine.Pc
	err = emu.Machine.Tick()
	if errors.Is(err, vm.ErrStopped) {
		err = nil
		done = true
		return
	}
	if err != nil {
		var fault *vm.ErrFault
		if errors.As(err, &fault) {
			pc = fault.Pc
		}
		err = emu.locate(pc, err)
		return
	}

	return
}

// Run ticks the emulator until the program stops, fails, or ctx is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		err = ctx.Err()
		if err != nil {
			err = &vm.ErrFault{Pc: emu.Machine.Pc, Module: emu.Machine.CurrentId(), Err: err}
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
