package vm

// Registers is the general-purpose register file, indexed by Register-AX.
type Registers [REGISTER_COUNT]byte

// Get returns the value of a register.
func (regs *Registers) Get(reg Register) (value byte, err error) {
	if !reg.Valid() {
		err = ErrInvalidRegister
		return
	}

	value = regs[reg-AX]
	return
}

// Set sets the value of a register.
func (regs *Registers) Set(reg Register, value byte) (err error) {
	if !reg.Valid() {
		err = ErrInvalidRegister
		return
	}

	regs[reg-AX] = value
	return
}

// Reset zeroes all registers.
func (regs *Registers) Reset() {
	clear(regs[:])
}

// Snapshot returns a copy of all register values.
func (regs *Registers) Snapshot() Registers {
	return *regs
}

// Restore replaces all register values from a snapshot.
func (regs *Registers) Restore(snap Registers) {
	*regs = snap
}
