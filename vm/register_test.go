package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisters_SetGet(t *testing.T) {
	assert := assert.New(t)

	regs := &Registers{}
	for _, reg := range []Register{AX, BX, CX, DX} {
		for _, value := range []byte{0x00, 0x01, 0x7f, 0x80, 0xff} {
			assert.NoError(regs.Set(reg, value))
			got, err := regs.Get(reg)
			assert.NoError(err)
			assert.Equal(value, got, reg.String())
		}
	}
}

func TestRegisters_Invalid(t *testing.T) {
	assert := assert.New(t)

	regs := &Registers{}
	for _, reg := range []Register{0, 5, 0xff} {
		_, err := regs.Get(reg)
		assert.ErrorIs(err, ErrInvalidRegister)
		err = regs.Set(reg, 1)
		assert.ErrorIs(err, ErrInvalidRegister)
	}
	assert.Equal(Registers{}, *regs)
}

func TestRegisters_SnapshotRestore(t *testing.T) {
	assert := assert.New(t)

	regs := &Registers{}
	regs.Set(AX, 1)
	regs.Set(BX, 2)
	regs.Set(CX, 3)
	regs.Set(DX, 4)

	snap := regs.Snapshot()
	regs.Reset()
	assert.Equal(Registers{}, *regs)

	regs.Restore(snap)
	assert.Equal(Registers{1, 2, 3, 4}, *regs)

	// Snapshots are copies.
	regs.Set(AX, 9)
	assert.Equal(byte(1), snap[0])
}

func TestRegister_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ax", AX.String())
	assert.Equal("dx", DX.String())
	assert.Equal("Register(0)", Register(0).String())
	assert.Equal("Register(9)", Register(9).String())
}
