package vm

import (
	"errors"

	"github.com/ezrec/modvm/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrOutOfBounds        = errors.New(f("address out of bounds"))
	ErrInvalidRegister    = errors.New(f("register invalid"))
	ErrUnknownModule      = errors.New(f("module unknown"))
	ErrDuplicateModule    = errors.New(f("module duplicated"))
	ErrMalformedModule    = errors.New(f("module malformed"))
	ErrCallStackExhausted = errors.New(f("call stack exhausted"))
	ErrUnknownOpcode      = errors.New(f("opcode unknown"))
	ErrNoModule           = errors.New(f("no current module"))
	ErrBudgetExhausted    = errors.New(f("instruction budget exhausted"))
	ErrStopped            = errors.New(f("machine stopped"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrOrgBackwards       = errors.New(f(".org moves backwards"))
	ErrOperandCount       = errors.New(f("operand count"))
	ErrOperandRange       = errors.New(f("operand out of range"))
	ErrRegisterName       = errors.New(f("register name invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrImageOverflow      = errors.New(f("image overflow"))
)

// ErrFault is a runtime failure at a program counter.
type ErrFault struct {
	Pc     int    // Program counter of the faulting instruction.
	Module int    // Module id of the faulting context, or ROOT_ID.
	Op     Opcode // Faulting opcode; NOP if outside an instruction.
	Err    error
}

func (err *ErrFault) Error() string {
	where := f("root")
	if err.Module != ROOT_ID {
		where = f("module 0x%02x", err.Module)
	}
	// NOP never faults, so it marks a fault outside of an instruction.
	if err.Op == NOP {
		return f("pc 0x%02x %v: %v", err.Pc, where, err.Err)
	}
	return f("pc 0x%02x %v %v: %v", err.Pc, where, err.Op, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrLoad is a loader failure for the declaration at Addr.
type ErrLoad struct {
	Addr int
	Id   int
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("load 0x%02x module 0x%02x: %v", err.Addr, err.Id, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

// ErrLabelMissing is an assembler reference to an undefined label.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrParseNumber is an assembler word that is not a number.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseExpression is an assembler $(...) that did not evaluate to an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembler error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
