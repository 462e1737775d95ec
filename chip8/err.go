package chip8

import (
	"errors"

	"github.com/ezrec/gochip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrProgramTooLarge = errors.New(f("program too large"))
	ErrStackFull       = errors.New(f("call stack full"))
	ErrStackEmpty      = errors.New(f("call stack empty"))
	ErrAddressRange    = errors.New(f("address out of range"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrByteSyntax      = errors.New(f(".byte syntax"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOpcodeArgs      = errors.New(f("opcode arguments invalid"))
)

// ErrOpcode reports an instruction outside the implemented set.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("unsupported opcode 0x%04x", uint16(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
