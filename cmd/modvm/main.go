// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/ezrec/modvm/config"
	"github.com/ezrec/modvm/emulator"
	"github.com/ezrec/modvm/internal"
	"github.com/ezrec/modvm/trace"
	"github.com/ezrec/modvm/translate"
	"github.com/ezrec/modvm/vm"
)

// exitCodes maps error kinds to process exit status.
var exitCodes = []struct {
	err  error
	code int
}{
	{vm.ErrOutOfBounds, 2},
	{vm.ErrInvalidRegister, 3},
	{vm.ErrUnknownModule, 4},
	{vm.ErrDuplicateModule, 5},
	{vm.ErrMalformedModule, 6},
	{vm.ErrCallStackExhausted, 7},
	{vm.ErrUnknownOpcode, 8},
	{vm.ErrNoModule, 9},
	{vm.ErrBudgetExhausted, 10},
}

// exitCode returns the process exit status for err.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	for _, entry := range exitCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return 1
}

func main() {
	var cfgPath string
	var compile string
	var image string
	var save string
	var output string
	var dump string
	var depth int
	var ticks int
	var tracing bool
	var listing bool
	var defines bool
	var verbose bool

	flag.StringVar(&cfgPath, "config", "", "modvm.toml configuration file")
	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&image, "i", "", "binary image to load")
	flag.StringVar(&save, "s", "", "Save image to file, do not execute")
	flag.StringVar(&output, "o", "", "OUT tape output, - for stdout")
	flag.StringVar(&dump, "dump", "", "Write CBOR machine snapshot on exit")
	flag.IntVar(&depth, "depth", 0, "Maximum call depth")
	flag.IntVar(&ticks, "ticks", 0, "Instruction budget")
	flag.BoolVar(&tracing, "t", false, "Trace loader and machine events")
	flag.BoolVar(&listing, "l", false, "List the image and modules, do not execute")
	flag.BoolVar(&defines, "D", false, "List the assembler defines, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := config.Default()
	if len(cfgPath) == 0 {
		if _, err := os.Stat(config.FILENAME); err == nil {
			cfgPath = config.FILENAME
		}
	}
	if len(cfgPath) != 0 {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			log.Fatalf("%v: %v", cfgPath, err)
		}
	}

	// Flags override the configuration file.
	if depth > 0 {
		cfg.Machine.MaxDepth = depth
	}
	if ticks > 0 {
		cfg.Machine.MaxTicks = ticks
	}
	if len(output) != 0 {
		cfg.Output.Path = output
	}
	cfg.Trace.Enabled = cfg.Trace.Enabled || tracing
	cfg.Trace.Verbose = cfg.Trace.Verbose || verbose

	if len(cfg.Trace.Locale) != 0 {
		translate.SetLocale(cfg.Trace.Locale)
	}

	emu := emulator.NewEmulator(cfg)

	if defines {
		for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
			fmt.Printf("%v = %v\n", key, value)
		}
		return
	}

	if cfg.Trace.Enabled {
		commonlog.Configure(cfg.Trace.Level, nil)
		emu.Machine.Tracer = trace.NewLogger("modvm.trace")
	}

	switch {
	case len(compile) != 0 && len(image) != 0:
		log.Fatalf("%v: -c and -i are exclusive", os.Args[0])
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		err = emu.Assemble(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(image) != 0:
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		err = emu.LoadImage(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	default:
		log.Fatalf("%v: one of -c or -i is required", os.Args[0])
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		_, err = emu.Rom.WriteTo(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if cfg.Output.Path == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(cfg.Output.Path)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Output.Path, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	err := emu.Reset()
	if err != nil {
		log.Printf("%v", err)
		os.Exit(exitCode(err))
	}

	if listing {
		list(emu.Machine)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = emu.Run(ctx)
	stop()

	if len(dump) != 0 {
		writeDump(emu, dump)
	}

	if err != nil {
		log.Printf("%v", err)
		if verbose {
			log.Print(emu.Machine.String())
		}
		os.Exit(exitCode(err))
	}
}

// list prints the disassembly of the root image and of every module body.
func list(m *vm.Machine) {
	fmt.Println("root:")
	for addr := 0; addr < vm.MEMORY_SIZE; {
		var mod *vm.Module
		for candidate := range m.Modules.Occupied() {
			if candidate.Declared == addr {
				mod = candidate
				break
			}
		}
		if mod != nil {
			fmt.Printf("  %02x: module 0x%02x\n", addr, mod.Id)
			addr = mod.End + 1
			continue
		}

		ins, err := vm.Decode(&m.Image, addr)
		if err != nil {
			fmt.Printf("  %02x: .byte 0x%02x\n", addr, m.Image.Data[addr])
			addr++
			continue
		}
		if ins.Op != vm.NOP {
			fmt.Printf("  %02x: %v\n", addr, ins)
		}
		addr += ins.Width()
	}

	for mod := range m.Modules.Occupied() {
		fmt.Printf("module 0x%02x:\n", mod.Id)
		for ins, err := range vm.Disassemble(&mod.Memory, mod.Start) {
			if err != nil || ins.Addr >= mod.End {
				break
			}
			fmt.Printf("  %02x: %v\n", ins.Addr, ins)
		}
	}
}

// writeDump saves the machine snapshot to path.
func writeDump(emu *emulator.Emulator, path string) {
	data, err := emulator.MarshalSnapshot(emu.Snapshot())
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		log.Printf("%v: %v", path, err)
	}
}
