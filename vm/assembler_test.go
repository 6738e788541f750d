package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, program []string) (prog *Program) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Lines))
	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(make([]byte, MEMORY_SIZE), prog.Image())
}

func TestAssembler_Modules(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; root context",
		"        nop",
		"        move ax, 3",
		"        start 0",
		"",
		"        module 0",
		"        move ax, 2",
		"        move bx, 3",
		"        add ax, bx",
		"        start 1",
		"        ret",
		"",
		"        module 1",
		"        move ax, 4",
		"        move bx, 9 ; trailing comment",
		"        add ax, bx",
		"        ret",
	}

	prog := assemble(t, program)

	expected := code(
		NOP, MOVE, AX, 3,
		START, 0x00,
		MODULE, 0x00, MOVE, AX, 2, MOVE, BX, 3, ADD, AX, BX, START, 0x01, RET,
		MODULE, 0x01, MOVE, AX, 4, MOVE, BX, 9, ADD, AX, BX, RET,
	)

	image := prog.Image()
	assert.Equal(expected, image[:len(expected)])

	// Blank and comment-only lines generate nothing.
	assert.Equal(14, len(prog.Lines))
	assert.Equal(2, prog.Lines[0].LineNo)
	assert.Equal(6, prog.Lines[3].LineNo)
	assert.Equal(6, prog.Lines[3].Addr)
	assert.Equal([]string{"module", "0"}, prog.Lines[3].Words)
	assert.Equal([]byte{byte(MODULE), 0x00}, prog.Lines[3].Bytes)
}

func TestAssembler_Case(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, []string{"MOVE CX, 0x10", "Out cx"})
	assert.Equal(code(MOVE, CX, 0x10, OUT, CX), prog.Image()[:5])
}

func TestAssembler_Values(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, []string{
		"move ax, -1",
		"move bx, -0x80",
		"move cx, 0xff",
		"move dx, 0b101",
		".byte 1 2 0x7f",
	})
	assert.Equal(code(MOVE, AX, 0xff, MOVE, BX, 0x80, MOVE, CX, 0xff, MOVE, DX, 5, 1, 2, 0x7f),
		prog.Image()[:15])
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, []string{
		"        ld ax, data",
		"        out ax",
		"        halt",
		"data:   .byte 0x42",
		"here: there: nop",
	})

	assert.Equal(code(LD, AX, 0x06, OUT, AX, HALT, 0x42), prog.Image()[:7])

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("a: nop\nb: nop\nc:"))
	assert.NoError(err)
	assert.Equal(map[string]int{"a": 0, "b": 1, "c": 2}, asm.Label)
}

func TestAssembler_Equ(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, []string{
		".equ VALUE 9",
		".equ SCRATCH dx",
		"move SCRATCH, VALUE",
	})
	assert.Equal(code(MOVE, DX, 9), prog.Image()[:3])

	asm := &Assembler{}
	asm.Predefine("DEPTH", "4")
	asm.Predefine("DEPTH", "5")
	prog, err := asm.Parse(strings.NewReader("move ax DEPTH"))
	assert.NoError(err)
	assert.Equal(code(MOVE, AX, 5), prog.Image()[:3])
}

func TestAssembler_Org(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, []string{
		"        nop",
		"        .org 0x10",
		"entry:  halt",
		"        .org $(entry + 1)",
	})

	if assert.Equal(2, len(prog.Lines)) {
		assert.Equal(0x10, prog.Lines[1].Addr)
	}
	assert.Equal(byte(HALT), prog.Image()[0x10])
}

func TestAssembler_Expression(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, []string{
		".equ BASE 4",
		"start:  move ax, $(BASE * 2)",
		"        move bx, $(start + 0x20)",
		"        move cx, LINENO",
		"end:",
		"        move dx, $(end - start)",
	})

	assert.Equal(code(MOVE, AX, 8, MOVE, BX, 0x20, MOVE, CX, 4, MOVE, DX, 9), prog.Image()[:12])
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		source string
		lineno int
		err    error
	}){
		{"mnemonic", "nop\nbogus", 2, ErrInstructionInvalid},
		{"few", "move ax", 1, ErrOperandCount},
		{"many", "halt 1", 1, ErrOperandCount},
		{"register", "move ex, 1", 1, ErrRegisterName},
		{"register_value", "add ax, 1", 1, ErrRegisterName},
		{"high", "move ax, 0x100", 1, ErrOperandRange},
		{"low", "move ax, -129", 1, ErrOperandRange},
		{"byte_range", ".byte 300", 1, ErrOperandRange},
		{"byte_empty", ".byte", 1, ErrOperandCount},
		{"byte_label", ".byte zz", 1, ErrParseNumber("zz")},
		{"label_missing", "nop\nld ax, nowhere\nnop", 2, ErrLabelMissing("nowhere")},
		{"label_dup", "a: nop\na: nop", 2, ErrLabelDuplicate},
		{"equ_syntax", ".equ X", 1, ErrEquateSyntax},
		{"equ_dup", ".equ X 1\n.equ X 2", 2, ErrEquateDuplicate},
		{"org_syntax", ".org", 1, ErrOrgSyntax},
		{"org_number", ".org here", 1, ErrParseNumber("here")},
		{"org_backwards", ".org 4\n.org 2", 2, ErrOrgBackwards},
		{"org_overflow", ".org 0x101", 1, ErrImageOverflow},
		{"overflow", ".org 0xfe\nmove ax, 1", 2, ErrImageOverflow},
		{"expression", "move ax, $(1 +)", 1, nil},
		{"expression_type", "move ax, $(\"x\")", 1, ErrParseExpression("\"x\"")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.source))
		if !assert.Error(err, entry.name) {
			continue
		}

		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.name)
		}

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}
