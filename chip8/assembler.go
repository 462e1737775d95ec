// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package chip8

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a line-oriented assembler for CHIP-8 programs.
//
// Syntax, one statement per line, ';' starts a comment:
//
//	label:              ; memory address of the next statement
//	.equ NAME VALUE     ; textual equate
//	.byte 0xf0 0x90 ... ; raw data rows (sprites)
//	cls                 ; instruction mnemonics, lowercase
//	ld v0 $( 2 * 30 )   ; $() expressions evaluate at assembly time
//	jp loop             ; address operands take labels or numbers
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcodes []Opcode // List of assembled opcodes.

	Label  map[string]int    // Map of labels to memory addresses.
	Equate map[string]string // Map of equates.

	addr   int
	fixups []fixup
}

// fixup is an instruction whose address field names a label that was
// not yet defined when the instruction was emitted.
type fixup struct {
	index  int // Opcodes index to patch
	label  string
	lineno int
	line   string
}

// Parse assembles a complete source stream into a Program.
func (asm *Assembler) Parse(r io.Reader) (prog *Program, err error) {
	if asm.Equate == nil {
		asm.Equate = map[string]string{}
	}
	if asm.Label == nil {
		asm.Label = map[string]int{}
	}
	if asm.addr == 0 {
		asm.addr = PROGRAM_START
	}

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if n := strings.IndexByte(line, ';'); n >= 0 {
			line = line[:n]
		}
		line = strings.ReplaceAll(line, ",", " ")

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err == nil && len(words) > 0 {
			err = asm.parseWords(words, lineno, line)
		}
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}

	err = asm.resolve()
	if err != nil {
		return
	}

	prog = &Program{Opcodes: asm.Opcodes}

	return
}

// resolve patches the address fields of instructions that referenced
// labels defined later in the source.
func (asm *Assembler) resolve() (err error) {
	for _, fx := range asm.fixups {
		addr, ok := asm.Label[fx.label]
		if !ok {
			err = ErrSyntax{LineNo: fx.lineno, Line: fx.line, Err: ErrLabelMissing(fx.label)}
			return
		}

		op := &asm.Opcodes[fx.index]
		word := uint16(op.Bytes[0])<<8 | uint16(op.Bytes[1])
		word = (word & 0xf000) | (uint16(addr) & 0x0fff)
		op.Bytes[0] = byte(word >> 8)
		op.Bytes[1] = byte(word)
	}

	asm.fixups = nil

	return
}

// parenEval does assembly-time $(...) evaluations. Integer equates are
// visible to the expression as predeclared names.
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value16 uint16
		value16, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value16))
	}
	err = nil
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
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}

// parseLine expands a source line into statement words: evaluates $()
// expressions, handles .equ and labels, and substitutes equates.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
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
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.addr
		words = words[1:]
	}

	return
}

// valueOf returns the value of a numeric word.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	v64, verr := strconv.ParseInt(word, 0, 32)
	if verr != nil || v64 < 0 || v64 > 0xffff {
		err = ErrParseNumber(word)
		return
	}
	value = uint16(v64)
	return
}

// registerOf parses a vN register name.
func registerOf(word string) (reg uint16, ok bool) {
	if len(word) != 2 || word[0] != 'v' {
		return
	}
	n, err := strconv.ParseUint(word[1:], 16, 8)
	if err != nil {
		return
	}
	return uint16(n), true
}

// codeAddr resolves an address operand: a defined label, a number, or
// a forward label reference recorded for later patching.
func (asm *Assembler) codeAddr(word string, lineno int, line string) (addr uint16, err error) {
	if known, ok := asm.Label[word]; ok {
		addr = uint16(known)
		return
	}

	value, verr := asm.valueOf(word)
	if verr == nil {
		if value > 0x0fff {
			err = ErrParseNumber(word)
			return
		}
		addr = value
		return
	}

	asm.fixups = append(asm.fixups, fixup{
		index:  len(asm.Opcodes),
		label:  word,
		lineno: lineno,
		line:   line,
	})

	return
}

func (asm *Assembler) emit(lineno int, bytes ...byte) {
	if asm.Verbose {
		log.Printf("asm: %03x: % x", asm.addr, bytes)
	}
	asm.Opcodes = append(asm.Opcodes, Opcode{LineNo: lineno, Addr: asm.addr, Bytes: bytes})
	asm.addr += len(bytes)
}

func (asm *Assembler) emitCode(lineno int, word uint16) {
	asm.emit(lineno, byte(word>>8), byte(word))
}

// parseWords encodes one statement.
func (asm *Assembler) parseWords(words []string, lineno int, line string) (err error) {
	mnemonic := words[0]
	args := words[1:]

	// wantArgs errors unless the statement has exactly n arguments.
	wantArgs := func(n int) error {
		if len(args) != n {
			return ErrOpcodeArgs
		}
		return nil
	}

	// vReg errors unless the word is a register name.
	vReg := func(word string) (reg uint16, err error) {
		reg, ok := registerOf(word)
		if !ok {
			err = ErrParseRegister(word)
		}
		return
	}

	switch mnemonic {
	case ".byte":
		if len(args) == 0 {
			return ErrByteSyntax
		}
		var bytes []byte
		for _, arg := range args {
			value, verr := asm.valueOf(arg)
			if verr != nil || value > 0xff {
				return ErrByteSyntax
			}
			bytes = append(bytes, byte(value))
		}
		asm.emit(lineno, bytes...)

	case "cls":
		if err = wantArgs(0); err != nil {
			return
		}
		asm.emitCode(lineno, 0x00e0)

	case "ret":
		if err = wantArgs(0); err != nil {
			return
		}
		asm.emitCode(lineno, 0x00ee)

	case "jp":
		switch len(args) {
		case 1:
			var addr uint16
			addr, err = asm.codeAddr(args[0], lineno, line)
			if err != nil {
				return
			}
			asm.emitCode(lineno, 0x1000|addr)
		case 2:
			if args[0] != "v0" {
				return ErrOpcodeArgs
			}
			var addr uint16
			addr, err = asm.codeAddr(args[1], lineno, line)
			if err != nil {
				return
			}
			asm.emitCode(lineno, 0xb000|addr)
		default:
			return ErrOpcodeArgs
		}

	case "call":
		if err = wantArgs(1); err != nil {
			return
		}
		var addr uint16
		addr, err = asm.codeAddr(args[0], lineno, line)
		if err != nil {
			return
		}
		asm.emitCode(lineno, 0x2000|addr)

	case "se", "sne":
		if err = wantArgs(2); err != nil {
			return
		}
		var x uint16
		x, err = vReg(args[0])
		if err != nil {
			return
		}
		if y, ok := registerOf(args[1]); ok {
			word := uint16(0x5000)
			if mnemonic == "sne" {
				word = 0x9000
			}
			asm.emitCode(lineno, word|x<<8|y<<4)
		} else {
			var value uint16
			value, err = asm.valueOf(args[1])
			if err != nil || value > 0xff {
				return ErrParseNumber(args[1])
			}
			word := uint16(0x3000)
			if mnemonic == "sne" {
				word = 0x4000
			}
			asm.emitCode(lineno, word|x<<8|value)
		}

	case "ld":
		if err = wantArgs(2); err != nil {
			return
		}
		err = asm.ldWords(args[0], args[1], lineno, line)

	case "add":
		if err = wantArgs(2); err != nil {
			return
		}
		if args[0] == "i" {
			var x uint16
			x, err = vReg(args[1])
			if err != nil {
				return
			}
			asm.emitCode(lineno, 0xf01e|x<<8)
			return
		}
		var x uint16
		x, err = vReg(args[0])
		if err != nil {
			return
		}
		if y, ok := registerOf(args[1]); ok {
			asm.emitCode(lineno, 0x8004|x<<8|y<<4)
		} else {
			var value uint16
			value, err = asm.valueOf(args[1])
			if err != nil || value > 0xff {
				return ErrParseNumber(args[1])
			}
			asm.emitCode(lineno, 0x7000|x<<8|value)
		}

	case "or", "and", "xor", "sub", "subn":
		if err = wantArgs(2); err != nil {
			return
		}
		var x, y uint16
		x, err = vReg(args[0])
		if err != nil {
			return
		}
		y, err = vReg(args[1])
		if err != nil {
			return
		}
		n := map[string]uint16{"or": 0x1, "and": 0x2, "xor": 0x3, "sub": 0x5, "subn": 0x7}[mnemonic]
		asm.emitCode(lineno, 0x8000|x<<8|y<<4|n)

	case "shr", "shl":
		if len(args) != 1 && len(args) != 2 {
			return ErrOpcodeArgs
		}
		var x uint16
		x, err = vReg(args[0])
		if err != nil {
			return
		}
		y := x
		if len(args) == 2 {
			y, err = vReg(args[1])
			if err != nil {
				return
			}
		}
		n := uint16(0x6)
		if mnemonic == "shl" {
			n = 0xe
		}
		asm.emitCode(lineno, 0x8000|x<<8|y<<4|n)

	case "rnd":
		if err = wantArgs(2); err != nil {
			return
		}
		var x, value uint16
		x, err = vReg(args[0])
		if err != nil {
			return
		}
		value, err = asm.valueOf(args[1])
		if err != nil || value > 0xff {
			return ErrParseNumber(args[1])
		}
		asm.emitCode(lineno, 0xc000|x<<8|value)

	case "drw":
		if err = wantArgs(3); err != nil {
			return
		}
		var x, y, height uint16
		x, err = vReg(args[0])
		if err != nil {
			return
		}
		y, err = vReg(args[1])
		if err != nil {
			return
		}
		height, err = asm.valueOf(args[2])
		if err != nil || height > 0xf {
			return ErrParseNumber(args[2])
		}
		asm.emitCode(lineno, 0xd000|x<<8|y<<4|height)

	case "skp", "sknp":
		if err = wantArgs(1); err != nil {
			return
		}
		var x uint16
		x, err = vReg(args[0])
		if err != nil {
			return
		}
		word := uint16(0xe09e)
		if mnemonic == "sknp" {
			word = 0xe0a1
		}
		asm.emitCode(lineno, word|x<<8)

	default:
		return ErrOpcodeInvalid
	}

	return
}

// ldWords encodes the ld family: register, index, timer, key, font,
// BCD, and bulk transfer spellings.
func (asm *Assembler) ldWords(dst, src string, lineno int, line string) (err error) {
	if x, ok := registerOf(dst); ok {
		switch src {
		case "dt":
			asm.emitCode(lineno, 0xf007|x<<8)
		case "k":
			asm.emitCode(lineno, 0xf00a|x<<8)
		case "[i]":
			asm.emitCode(lineno, 0xf065|x<<8)
		default:
			if y, ok := registerOf(src); ok {
				asm.emitCode(lineno, 0x8000|x<<8|y<<4)
				return
			}
			var value uint16
			value, err = asm.valueOf(src)
			if err != nil || value > 0xff {
				return ErrParseNumber(src)
			}
			asm.emitCode(lineno, 0x6000|x<<8|value)
		}
		return
	}

	if dst == "i" {
		var addr uint16
		addr, err = asm.codeAddr(src, lineno, line)
		if err != nil {
			return
		}
		asm.emitCode(lineno, 0xa000|addr)
		return
	}

	x, ok := registerOf(src)
	if !ok {
		return ErrParseRegister(src)
	}

	switch dst {
	case "dt":
		asm.emitCode(lineno, 0xf015|x<<8)
	case "st":
		asm.emitCode(lineno, 0xf018|x<<8)
	case "f":
		asm.emitCode(lineno, 0xf029|x<<8)
	case "b":
		asm.emitCode(lineno, 0xf033|x<<8)
	case "[i]":
		asm.emitCode(lineno, 0xf055|x<<8)
	default:
		return ErrOpcodeArgs
	}

	return
}
