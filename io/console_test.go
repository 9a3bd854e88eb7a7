package io

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("r3 = -12", FormatRegister(3, -12))
	assert.Equal("regs = [1, -2, 0]", FormatRegisters([]int64{1, -2, 0}))
	assert.Equal("regs = []", FormatRegisters(nil))
}

func TestConsole(t *testing.T) {
	assert := assert.New(t)

	var text strings.Builder
	con := &Console{Output: &text}

	assert.NoError(con.DebugRegister(0, 120))
	assert.NoError(con.DebugRegisters([]int64{120, 0}))

	assert.Equal("r0 = 120\nregs = [120, 0]\n", text.String())
}

func TestCapture(t *testing.T) {
	assert := assert.New(t)

	capt := &Capture{}
	assert.Equal("", capt.String())

	assert.NoError(capt.DebugRegister(1, 5))
	assert.NoError(capt.DebugRegisters([]int64{0, 5}))
	assert.Equal([]string{"r1 = 5", "regs = [0, 5]"}, capt.Lines)

	var text strings.Builder
	n, err := capt.WriteTo(&text)
	assert.NoError(err)
	assert.Equal(int64(text.Len()), n)
	assert.Equal("r1 = 5\nregs = [0, 5]\n", text.String())

	capt.Reset()
	assert.Empty(capt.Lines)
}
