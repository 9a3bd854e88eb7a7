package cpu

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"slices"
)

// Program is an immutable buffer of encoded instructions.
// Instructions are addressed by byte offset.
type Program struct {
	code []byte
}

// Serialize returns the persisted form of a program. It is the encoded
// instruction stream itself, with no header or framing.
func Serialize(prog *Program) []byte {
	return slices.Clone(prog.code)
}

// Deserialize validates a persisted instruction stream and returns it as a
// program.
func Deserialize(data []byte) (prog *Program, err error) {
	for ip := 0; ip < len(data); {
		var ins Instruction
		ins, err = Decode(data, ip)
		if err != nil {
			err = &ErrDecode{Offset: ip, Err: err}
			return
		}
		ip += ins.Size()
	}

	prog = &Program{code: slices.Clone(data)}

	return
}

// Len returns the size of the program in bytes.
func (prog *Program) Len() int {
	return len(prog.code)
}

// Bytes returns a copy of the encoded program.
func (prog *Program) Bytes() []byte {
	return Serialize(prog)
}

// Equal returns true if both programs have the same encoding.
func (prog *Program) Equal(other *Program) bool {
	return bytes.Equal(prog.code, other.code)
}

// Decode decodes the instruction at byte offset ip.
func (prog *Program) Decode(ip uint64) (ins Instruction, err error) {
	if ip >= uint64(len(prog.code)) {
		err = ErrIpOutOfBounds
		return
	}
	return Decode(prog.code, int(ip))
}

// Instructions iterates over the instructions of the program from offset 0.
// Iteration stops at the first undecodable instruction.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(ip int, ins Instruction) bool) {
		for ip := 0; ip < len(prog.code); {
			ins, err := Decode(prog.code, ip)
			if err != nil {
				return
			}
			if !yield(ip, ins) {
				return
			}
			ip += ins.Size()
		}
	}
}

// Disassemble writes a listing of the program, one instruction per line.
func (prog *Program) Disassemble(w io.Writer) (err error) {
	for ip, ins := range prog.Instructions() {
		_, err = fmt.Fprintf(w, "%04x: %v\n", ip, ins)
		if err != nil {
			return
		}
	}
	return
}
