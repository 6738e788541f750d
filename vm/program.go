package vm

import (
	"iter"
)

// Line is a line of assembled source with the bytes it generated.
type Line struct {
	LineNo int
	Addr   int
	Words  []string
	Bytes  []byte
}

// Program is an assembled program listing.
type Program struct {
	Lines []Line
}

// Debug locates the listing line of an image address.
type Debug struct {
	*Line
	Index int
}

// Debug returns the listing line that generated the byte at addr.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= line.Addr && addr < line.Addr+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: addr - line.Addr,
			}
			break
		}
	}

	return
}

// Bytes iterates over the generated bytes by address.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Addr+n, value) {
					return
				}
			}
		}
	}
}

// Image returns the program as a full-size memory image.
func (prog *Program) Image() (image []byte) {
	image = make([]byte, MEMORY_SIZE)
	for addr, value := range prog.Bytes() {
		if addr < MEMORY_SIZE {
			image[addr] = value
		}
	}

	return
}

// Disassemble iterates over the instructions of mem, starting at addr.
// Iteration stops at the first byte that does not decode.
func Disassemble(mem *Memory, addr int) iter.Seq2[Instruction, error] {
	return func(yield func(ins Instruction, err error) bool) {
		for addr < MEMORY_SIZE {
			ins, err := Decode(mem, addr)
			if !yield(ins, err) || err != nil {
				return
			}
			addr += ins.Width()
		}
	}
}
