// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// fixup is a forward reference to a label.
type fixup struct {
	line  int // Index into Assembler.Line.
	index int // Byte index in the line.
	label string
}

// Assembler is a single pass assembler for module images.
//
// Source lines are `[label:]... [mnemonic operand...] [; comment]`, or one
// of the directives `.equ NAME VALUE`, `.org ADDR` and `.byte VALUE...`.
// `$(expr)` is evaluated at assembly time over the integer equates and the
// labels defined so far.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Line    []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to image addresses.
	Equate    map[string]string // Map of equates.

	addr   int
	fixups []fixup
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names.
var regMap = map[string]Register{
	"ax": AX,
	"bx": BX,
	"cx": CX,
	"dx": DX,
}

// opMap is a map of mnemonics.
var opMap = func() map[string]Opcode {
	ops := map[string]Opcode{}
	for op := NOP; op.Known(); op++ {
		ops[op.String()] = op
	}
	return ops
}()

// valueOf returns the 8-bit value of a simple word.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < -0x80 || v64 > 0xff {
		err = ErrOperandRange
		return
	}

	value = byte(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words, handling labels and
// directives that generate no bytes.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	words = strings.Fields(line)

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.addr
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = nil
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	// .org ADDR
	if words[0] == ".org" {
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var addr int64
		addr, err = strconv.ParseInt(words[1], 0, 64)
		if err != nil {
			err = ErrParseNumber(words[1])
			return
		}
		if addr < int64(asm.addr) {
			err = ErrOrgBackwards
			return
		}
		if addr > MEMORY_SIZE {
			err = ErrImageOverflow
			return
		}
		asm.addr = int(addr)
		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Line = asm.Line[:0]
	asm.Label = map[string]int{}
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.addr = 0
	asm.fixups = asm.fixups[:0]

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for _, fix := range asm.fixups {
		ln := &asm.Line[fix.line]
		addr, ok := asm.Label[fix.label]
		if !ok {
			lineno = ln.LineNo
			line = strings.Join(ln.Words, " ")
			err = ErrLabelMissing(fix.label)
			return
		}
		ln.Bytes[fix.index] = byte(addr)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Line),
	}

	return
}

// parseWords encodes the words of a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	var bytes []byte
	var fixes []fixup

	if words[0] == ".byte" {
		if len(words) < 2 {
			err = ErrOperandCount
			return
		}
		for _, word := range words[1:] {
			var value byte
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			bytes = append(bytes, value)
		}
	} else {
		op, ok := opMap[strings.ToLower(words[0])]
		if !ok {
			err = ErrInstructionInvalid
			return
		}

		kinds := op.Operands()
		if len(words)-1 != len(kinds) {
			err = ErrOperandCount
			return
		}

		bytes = append(bytes, byte(op))
		for n, kind := range kinds {
			word := words[1+n]
			if kind == OPERAND_REGISTER {
				reg, ok := regMap[strings.ToLower(word)]
				if !ok {
					err = ErrRegisterName
					return
				}
				bytes = append(bytes, byte(reg))
				continue
			}

			value, verr := asm.valueOf(word)
			if verr != nil {
				_, nerr := strconv.ParseInt(word, 0, 64)
				if nerr == nil {
					err = verr
					return
				}
				// Label operand, linked after parsing.
				fixes = append(fixes, fixup{line: len(asm.Line), index: len(bytes), label: word})
			}
			bytes = append(bytes, value)
		}
	}

	if asm.addr+len(bytes) > MEMORY_SIZE {
		err = ErrImageOverflow
		return
	}

	asm.Line = append(asm.Line, Line{LineNo: lineno, Addr: asm.addr, Words: words, Bytes: bytes})
	asm.fixups = append(asm.fixups, fixes...)
	asm.addr += len(bytes)

	return
}
