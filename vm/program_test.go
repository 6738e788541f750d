package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Lines: []Line{
			{LineNo: 1, Addr: 0, Words: []string{"move", "ax", "3"}, Bytes: code(MOVE, AX, 3)},
			{LineNo: 2, Addr: 3, Words: []string{"start", "0"}, Bytes: code(START, 0)},
			{LineNo: 4, Addr: 5, Words: []string{"halt"}, Bytes: code(HALT)},
		},
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Line)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Line)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(4)
	assert.NotNil(dbg.Line)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(5)
	assert.NotNil(dbg.Line)
	assert.Equal(4, dbg.LineNo)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Lines: []Line{
			{LineNo: 1, Addr: 0, Words: []string{"halt"}, Bytes: code(HALT)},
		},
	}

	dbg := prog.Debug(10)
	assert.Nil(dbg.Line)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Image(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Lines: []Line{
			{LineNo: 1, Addr: 0, Bytes: code(MOVE, AX, 3)},
			{LineNo: 2, Addr: 0x10, Bytes: code(HALT)},
		},
	}

	var addrs []int
	for addr := range prog.Bytes() {
		addrs = append(addrs, addr)
	}
	assert.Equal([]int{0, 1, 2, 0x10}, addrs)

	image := prog.Image()
	assert.Equal(MEMORY_SIZE, len(image))
	assert.Equal(code(MOVE, AX, 3), image[:3])
	assert.Equal(byte(HALT), image[0x10])
	assert.Equal(byte(NOP), image[0x0f])
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	mem := memoryOf(code(MOVE, AX, 3, START, 0x01, ADD, BX, 7, 0x20))

	var text []string
	var addrs []int
	var last error
	for ins, err := range Disassemble(mem, 0) {
		if err != nil {
			last = err
			break
		}
		text = append(text, ins.String())
		addrs = append(addrs, ins.Addr)
	}

	assert.Equal([]string{"move ax 0x03", "start 0x01", "add bx r7"}, text)
	assert.Equal([]int{0, 3, 5}, addrs)
	assert.ErrorIs(last, ErrUnknownOpcode)

	count := 0
	for range Disassemble(memoryOf(nil), MEMORY_SIZE-4) {
		count++
	}
	assert.Equal(4, count)
}
