package cpu

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// CodeKind is the kind of an instruction operand.
type CodeKind int

const (
	KIND_REGISTER = CodeKind(0) // register
	KIND_LITERAL  = CodeKind(1) // literal
	KIND_ADDRESS  = CodeKind(2) // address
)

var kindName = [...]string{
	KIND_REGISTER: "register",
	KIND_LITERAL:  "literal",
	KIND_ADDRESS:  "address",
}

func (kind CodeKind) String() string {
	if kind < 0 || int(kind) >= len(kindName) {
		return fmt.Sprintf("CodeKind(%d)", int(kind))
	}
	return kindName[kind]
}

// Size returns the number of encoded bytes of an operand of this kind.
func (kind CodeKind) Size() int {
	if kind == KIND_REGISTER {
		return 1
	}
	return 8
}

// Signature is the ordered operand kinds of an opcode.
type Signature []CodeKind

var (
	SIG_NONE             = Signature{}
	SIG_REGISTER         = Signature{KIND_REGISTER}
	SIG_LITERAL          = Signature{KIND_LITERAL}
	SIG_LITERAL_REGISTER = Signature{KIND_LITERAL, KIND_REGISTER}
	SIG_REGISTERS        = Signature{KIND_REGISTER, KIND_REGISTER}
	SIG_ADDRESS          = Signature{KIND_ADDRESS}
)

// Opcode is the one byte tag selecting an instruction.
type Opcode byte

const (
	OP_HALT    = Opcode(0x00)
	OP_SET     = Opcode(0x01)
	OP_PUSH    = Opcode(0x02)
	OP_PUSHL   = Opcode(0x03)
	OP_POP     = Opcode(0x04)
	OP_PUSHRF  = Opcode(0x05)
	OP_POPRF   = Opcode(0x06)
	OP_ADD     = Opcode(0x07)
	OP_ADDL    = Opcode(0x08)
	OP_SUB     = Opcode(0x09)
	OP_SUBLA   = Opcode(0x0a)
	OP_SUBLB   = Opcode(0x0b)
	OP_MUL     = Opcode(0x0c)
	OP_MULL    = Opcode(0x0d)
	OP_DIV     = Opcode(0x0e)
	OP_DIVLA   = Opcode(0x0f)
	OP_DIVLB   = Opcode(0x10)
	OP_MOD     = Opcode(0x11)
	OP_INC     = Opcode(0x12)
	OP_DEC     = Opcode(0x13)
	OP_CMP     = Opcode(0x14)
	OP_CMPL    = Opcode(0x15)
	OP_JMP     = Opcode(0x16)
	OP_JEQ     = Opcode(0x17)
	OP_JLT     = Opcode(0x18)
	OP_JLE     = Opcode(0x19)
	OP_JGT     = Opcode(0x1a)
	OP_JGE     = Opcode(0x1b)
	OP_JNE     = Opcode(0x1c)
	OP_CALL    = Opcode(0x1d)
	OP_RET     = Opcode(0x1e)
	OP_DBGREG  = Opcode(0x1f)
	OP_DBGREGS = Opcode(0x20)
)

// OpcodeInfo is the instruction table entry for an opcode.
type OpcodeInfo struct {
	Mnemonic  string
	Signature Signature
}

// opcodeTable is the only definition of the instruction set. Both the
// assembler and the decoder consult it.
var opcodeTable = [...]OpcodeInfo{
	OP_HALT:    {"HALT", SIG_NONE},
	OP_SET:     {"SET", SIG_LITERAL_REGISTER},
	OP_PUSH:    {"PUSH", SIG_REGISTER},
	OP_PUSHL:   {"PUSHL", SIG_LITERAL},
	OP_POP:     {"POP", SIG_REGISTER},
	OP_PUSHRF:  {"PUSHRF", SIG_LITERAL},
	OP_POPRF:   {"POPRF", SIG_LITERAL},
	OP_ADD:     {"ADD", SIG_REGISTERS},
	OP_ADDL:    {"ADDL", SIG_LITERAL_REGISTER},
	OP_SUB:     {"SUB", SIG_REGISTERS},
	OP_SUBLA:   {"SUBLA", SIG_LITERAL_REGISTER},
	OP_SUBLB:   {"SUBLB", SIG_LITERAL_REGISTER},
	OP_MUL:     {"MUL", SIG_REGISTERS},
	OP_MULL:    {"MULL", SIG_LITERAL_REGISTER},
	OP_DIV:     {"DIV", SIG_REGISTERS},
	OP_DIVLA:   {"DIVLA", SIG_LITERAL_REGISTER},
	OP_DIVLB:   {"DIVLB", SIG_LITERAL_REGISTER},
	OP_MOD:     {"MOD", SIG_REGISTERS},
	OP_INC:     {"INC", SIG_REGISTER},
	OP_DEC:     {"DEC", SIG_REGISTER},
	OP_CMP:     {"CMP", SIG_REGISTERS},
	OP_CMPL:    {"CMPL", SIG_LITERAL_REGISTER},
	OP_JMP:     {"JMP", SIG_ADDRESS},
	OP_JEQ:     {"JEQ", SIG_ADDRESS},
	OP_JLT:     {"JLT", SIG_ADDRESS},
	OP_JLE:     {"JLE", SIG_ADDRESS},
	OP_JGT:     {"JGT", SIG_ADDRESS},
	OP_JGE:     {"JGE", SIG_ADDRESS},
	OP_JNE:     {"JNE", SIG_ADDRESS},
	OP_CALL:    {"CALL", SIG_ADDRESS},
	OP_RET:     {"RET", SIG_NONE},
	OP_DBGREG:  {"DBGREG", SIG_REGISTER},
	OP_DBGREGS: {"DBGREGS", SIG_NONE},
}

// mnemonicMap maps upper case mnemonics to opcodes.
var mnemonicMap = func() map[string]Opcode {
	mnemonics := make(map[string]Opcode, len(opcodeTable))
	for n, info := range opcodeTable {
		mnemonics[info.Mnemonic] = Opcode(n)
	}
	return mnemonics
}()

// Lookup returns the opcode for a mnemonic, ignoring case.
func Lookup(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[strings.ToUpper(mnemonic)]
	return
}

// Opcodes returns every valid opcode in table order.
func Opcodes() (ops []Opcode) {
	for n := range opcodeTable {
		ops = append(ops, Opcode(n))
	}
	return
}

// Valid returns true if the opcode is in the instruction table.
func (op Opcode) Valid() bool {
	return int(op) < len(opcodeTable)
}

// Info returns the instruction table entry. The opcode must be valid.
func (op Opcode) Info() OpcodeInfo {
	return opcodeTable[op]
}

// Signature returns the operand kinds of the opcode.
func (op Opcode) Signature() Signature {
	if !op.Valid() {
		return nil
	}
	return opcodeTable[op].Signature
}

// Size returns the encoded size in bytes of an instruction with this opcode.
func (op Opcode) Size() (size int) {
	size = 1
	for _, kind := range op.Signature() {
		size += kind.Size()
	}
	return
}

// Transfers returns true if the opcode may set the instruction pointer.
func (op Opcode) Transfers() bool {
	switch op {
	case OP_JMP, OP_JEQ, OP_JLT, OP_JLE, OP_JGT, OP_JGE, OP_JNE, OP_CALL, OP_RET:
		return true
	}
	return false
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("0x%02x", byte(op))
	}
	return opcodeTable[op].Mnemonic
}

// Operand is one typed instruction operand.
type Operand struct {
	Kind  CodeKind
	Value uint64 // Raw 64-bit pattern; registers use the low byte.
}

// MakeRegister creates a register operand.
func MakeRegister(index int) Operand {
	return Operand{Kind: KIND_REGISTER, Value: uint64(byte(index))}
}

// MakeLiteral creates a literal operand.
func MakeLiteral(value int64) Operand {
	return Operand{Kind: KIND_LITERAL, Value: uint64(value)}
}

// MakeAddress creates an address operand.
func MakeAddress(addr uint64) Operand {
	return Operand{Kind: KIND_ADDRESS, Value: addr}
}

// Register returns the register index.
func (o Operand) Register() int {
	return int(byte(o.Value))
}

// Literal returns the signed literal value.
func (o Operand) Literal() int64 {
	return int64(o.Value)
}

// Address returns the absolute byte offset.
func (o Operand) Address() uint64 {
	return o.Value
}

func (o Operand) String() string {
	switch o.Kind {
	case KIND_REGISTER:
		return fmt.Sprintf("r%d", o.Register())
	case KIND_LITERAL:
		return fmt.Sprintf("%d", o.Literal())
	default:
		return fmt.Sprintf("@%04x", o.Address())
	}
}

// Instruction is an opcode with its decoded operands.
type Instruction struct {
	Opcode   Opcode
	Operands []Operand
}

// MakeInstruction creates an instruction.
func MakeInstruction(op Opcode, operands ...Operand) Instruction {
	return Instruction{Opcode: op, Operands: operands}
}

// Size returns the encoded size of the instruction.
func (ins Instruction) Size() int {
	return ins.Opcode.Size()
}

// Append encodes the instruction onto the end of code.
// The operands must match the opcode signature.
func (ins Instruction) Append(code []byte) []byte {
	code = append(code, byte(ins.Opcode))
	for _, operand := range ins.Operands {
		switch operand.Kind {
		case KIND_REGISTER:
			code = append(code, byte(operand.Value))
		default:
			code = binary.LittleEndian.AppendUint64(code, operand.Value)
		}
	}
	return code
}

// Encode returns the encoded instruction.
func (ins Instruction) Encode() []byte {
	return ins.Append(make([]byte, 0, ins.Size()))
}

func (ins Instruction) String() string {
	words := []string{ins.Opcode.String()}
	for _, operand := range ins.Operands {
		words = append(words, operand.String())
	}
	return strings.Join(words, " ")
}

// Decode decodes the instruction at offset ip of code.
func Decode(code []byte, ip int) (ins Instruction, err error) {
	if ip < 0 || ip >= len(code) {
		err = ErrTruncated
		return
	}

	ins.Opcode = Opcode(code[ip])
	if !ins.Opcode.Valid() {
		err = ErrOpcodeUnknown
		return
	}

	if ip+ins.Opcode.Size() > len(code) {
		err = ErrTruncated
		return
	}

	sig := ins.Opcode.Signature()
	if len(sig) > 0 {
		ins.Operands = make([]Operand, len(sig))
	}

	at := ip + 1
	for n, kind := range sig {
		var value uint64
		if kind == KIND_REGISTER {
			value = uint64(code[at])
		} else {
			value = binary.LittleEndian.Uint64(code[at:])
		}
		ins.Operands[n] = Operand{Kind: kind, Value: value}
		at += kind.Size()
	}

	return
}
