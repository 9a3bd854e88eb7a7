// Package cpu implements the uvm execution engine, its bytecode and its
// assembler.
//
// The engine has a bank of 64-bit signed registers (r0-r15 by default), a
// bounded data stack, a bounded call stack of return addresses, and a three
// state comparison flag. Programs are flat byte buffers: each instruction is
// a one byte opcode followed by its operands, one byte per register and eight
// little-endian bytes per literal or address. Addresses are absolute byte
// offsets into the program.
//
// The assembler is a two pass, line oriented assembler supporting labels,
// '.' scoped sublabels, equates, and compile-time expression evaluation.
package cpu
