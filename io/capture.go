package io

import (
	"io"
	"strings"
)

// Capture collects debug output lines in memory, to be reported after a
// run completes.
type Capture struct {
	Lines []string
}

func (capt *Capture) DebugRegister(index int, value int64) (err error) {
	capt.Lines = append(capt.Lines, FormatRegister(index, value))
	return
}

func (capt *Capture) DebugRegisters(values []int64) (err error) {
	capt.Lines = append(capt.Lines, FormatRegisters(values))
	return
}

// Reset discards the captured lines.
func (capt *Capture) Reset() {
	capt.Lines = nil
}

// String returns the captured lines, each terminated by a newline.
func (capt *Capture) String() string {
	if len(capt.Lines) == 0 {
		return ""
	}
	return strings.Join(capt.Lines, "\n") + "\n"
}

// WriteTo writes the captured lines to w.
func (capt *Capture) WriteTo(w io.Writer) (n int64, err error) {
	count, err := io.WriteString(w, capt.String())
	n = int64(count)
	return
}
