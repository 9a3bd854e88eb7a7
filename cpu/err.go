package cpu

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Runtime faults
	ErrStackOverflow      = errors.New(f("stack overflow"))
	ErrStackUnderflow     = errors.New(f("stack underflow"))
	ErrCallStackOverflow  = errors.New(f("call stack overflow"))
	ErrCallStackUnderflow = errors.New(f("call stack underflow"))
	ErrDivisionByZero     = errors.New(f("division by zero"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrIpOutOfBounds      = errors.New(f("ip out of bounds"))
	ErrHalted             = errors.New(f("cpu halted"))
	ErrFaulted            = errors.New(f("cpu faulted"))

	// Decode errors, ErrOpcodeUnknown is also a runtime fault.
	ErrOpcodeUnknown = errors.New(f("opcode unknown"))
	ErrTruncated     = errors.New(f("truncated buffer"))

	// Assembler errors
	ErrMnemonicUnknown  = errors.New(f("mnemonic unknown"))
	ErrOperandArity     = errors.New(f("operand count"))
	ErrOperandKind      = errors.New(f("operand kind"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelSyntax      = errors.New(f("label syntax"))
	ErrSublabelOrphan   = errors.New(f("sublabel without label"))
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrDirectiveUnknown = errors.New(f("directive unknown"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// Is matches any missing label.
func (el ErrLabelMissing) Is(err error) (ok bool) {
	_, ok = err.(ErrLabelMissing)
	return
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembly error.
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

// ErrDecode locates a binary decoding error.
type ErrDecode struct {
	Offset int
	Err    error
}

func (err *ErrDecode) Error() string {
	return f("offset %#x %v", err.Offset, err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}

// ErrFault is a runtime fault at an instruction pointer.
type ErrFault struct {
	Ip  uint64
	Err error
}

func (err *ErrFault) Error() string {
	return f("ip %#04x %v", err.Ip, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
