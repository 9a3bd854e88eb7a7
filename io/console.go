// Package io provides the output sinks for the uvm debug instructions.
//
// DBGREG writes a line of the form 'r<N> = <value>', and DBGREGS writes
// 'regs = [<r0>, <r1>, ...]'.
package io

import (
	"fmt"
	"io"
	"strings"
)

// FormatRegister formats the DBGREG output line, without a newline.
func FormatRegister(index int, value int64) string {
	return fmt.Sprintf("r%d = %d", index, value)
}

// FormatRegisters formats the DBGREGS output line, without a newline.
func FormatRegisters(values []int64) string {
	strs := make([]string, len(values))
	for n, value := range values {
		strs[n] = fmt.Sprintf("%d", value)
	}
	return "regs = [" + strings.Join(strs, ", ") + "]"
}

// Console writes debug output lines to an io.Writer as they happen.
type Console struct {
	Output io.Writer
}

func (con *Console) DebugRegister(index int, value int64) (err error) {
	_, err = fmt.Fprintln(con.Output, FormatRegister(index, value))
	return
}

func (con *Console) DebugRegisters(values []int64) (err error) {
	_, err = fmt.Fprintln(con.Output, FormatRegisters(values))
	return
}
