package vm

import (
	"fmt"
	"strings"
)

// Opcode is an instruction byte.
type Opcode byte

//go:generate go tool stringer -linecomment -type=Opcode
const (
	NOP    = Opcode(0x00) // nop
	START  = Opcode(0x01) // start
	HALT   = Opcode(0x02) // halt
	MOVE   = Opcode(0x03) // move
	ADD    = Opcode(0x04) // add
	MODULE = Opcode(0x05) // module
	RUN    = Opcode(0x06) // run
	RET    = Opcode(0x07) // ret
	CID    = Opcode(0x08) // cid
	LD     = Opcode(0x09) // ld
	LDC    = Opcode(0x0a) // ldc
	OUT    = Opcode(0x0b) // out
)

// Register is a register identifier. Identifiers start at 1.
type Register byte

//go:generate go tool stringer -linecomment -type=Register
const (
	AX = Register(1) // ax
	BX = Register(2) // bx
	CX = Register(3) // cx
	DX = Register(4) // dx
)

// REGISTER_COUNT is the number of general-purpose registers.
const REGISTER_COUNT = 4

// Valid returns true if the register identifier names a register.
func (reg Register) Valid() bool {
	return reg >= AX && reg <= DX
}

// OperandKind is the decode type of an instruction operand.
type OperandKind int

const (
	OPERAND_MODULE   = OperandKind(iota) // Module identifier.
	OPERAND_REGISTER                     // Register identifier.
	OPERAND_VALUE                        // 8-bit literal.
	OPERAND_ADDRESS                      // Memory address.
)

// operandMap lists the operand kinds of each opcode.
var operandMap = [...][]OperandKind{
	NOP:    nil,
	START:  {OPERAND_MODULE},
	HALT:   nil,
	MOVE:   {OPERAND_REGISTER, OPERAND_VALUE},
	ADD:    {OPERAND_REGISTER, OPERAND_REGISTER},
	MODULE: {OPERAND_MODULE},
	RUN:    {OPERAND_MODULE},
	RET:    nil,
	CID:    {OPERAND_REGISTER},
	LD:     {OPERAND_REGISTER, OPERAND_ADDRESS},
	LDC:    {OPERAND_REGISTER, OPERAND_REGISTER},
	OUT:    {OPERAND_REGISTER},
}

// Known returns true if the opcode is part of the instruction set.
func (op Opcode) Known() bool {
	return int(op) < len(operandMap)
}

// Operands returns the operand kinds of the opcode.
func (op Opcode) Operands() []OperandKind {
	if !op.Known() {
		return nil
	}
	return operandMap[op]
}

// Width returns the encoded size of the instruction, opcode included.
// Unknown opcodes have a width of one.
func (op Opcode) Width() int {
	return 1 + len(op.Operands())
}

// Instruction is a decoded instruction.
type Instruction struct {
	Addr int    // Address of the opcode.
	Op   Opcode // Opcode.
	Args []byte // Operand bytes.
}

// Decode decodes the instruction at addr.
func Decode(mem *Memory, addr int) (ins Instruction, err error) {
	b, err := mem.Read(addr)
	if err != nil {
		return
	}

	ins.Addr = addr
	ins.Op = Opcode(b)
	if !ins.Op.Known() {
		err = ErrUnknownOpcode
		return
	}

	for n := range len(ins.Op.Operands()) {
		var arg byte
		arg, err = mem.Read(addr + 1 + n)
		if err != nil {
			return
		}
		ins.Args = append(ins.Args, arg)
	}

	return
}

// Width returns the encoded size of the instruction.
func (ins Instruction) Width() int {
	return 1 + len(ins.Args)
}

// String returns the assembly language representation of the instruction.
func (ins Instruction) String() string {
	words := []string{ins.Op.String()}
	for n, kind := range ins.Op.Operands() {
		if n >= len(ins.Args) {
			break
		}
		arg := ins.Args[n]
		switch kind {
		case OPERAND_REGISTER:
			reg := Register(arg)
			if reg.Valid() {
				words = append(words, reg.String())
			} else {
				words = append(words, fmt.Sprintf("r%d", arg))
			}
		default:
			words = append(words, fmt.Sprintf("0x%02x", arg))
		}
	}

	return strings.Join(words, " ")
}
