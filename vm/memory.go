package vm

// MEMORY_SIZE is the number of cells of an addressable memory.
const MEMORY_SIZE = 0x100

// Memory is a fixed-size, byte-addressable region.
// The zero value is cleared to NOP.
type Memory struct {
	Data [MEMORY_SIZE]byte
}

// Read returns the byte at addr.
func (mem *Memory) Read(addr int) (value byte, err error) {
	if addr < 0 || addr >= MEMORY_SIZE {
		err = ErrOutOfBounds
		return
	}

	value = mem.Data[addr]
	return
}

// Write sets the byte at addr.
func (mem *Memory) Write(addr int, value byte) (err error) {
	if addr < 0 || addr >= MEMORY_SIZE {
		err = ErrOutOfBounds
		return
	}

	mem.Data[addr] = value
	return
}

// Clear resets every cell to NOP.
func (mem *Memory) Clear() {
	for n := range mem.Data {
		mem.Data[n] = byte(NOP)
	}
}

// Load clears the memory, then copies image to address 0.
func (mem *Memory) Load(image []byte) (err error) {
	if len(image) > MEMORY_SIZE {
		err = ErrOutOfBounds
		return
	}

	mem.Clear()
	copy(mem.Data[:], image)
	return
}

// Bytes returns a copy of the memory contents.
func (mem *Memory) Bytes() []byte {
	out := make([]byte, MEMORY_SIZE)
	copy(out, mem.Data[:])
	return out
}
