package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/uvm/cpu"
)

// writeSource writes a .uvm source file into a temporary directory.
func writeSource(t *testing.T, source string) (path string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "prog.uvm")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	return
}

func TestUvm_Usage(t *testing.T) {
	assert := assert.New(t)

	var out strings.Builder
	err := uvm("uvm", nil, strings.NewReader(""), &out)
	assert.ErrorIs(err, ErrUsage)

	path := writeSource(t, "HALT\n")
	err = uvm("uvm", []string{"-c", path, "-b", path}, strings.NewReader(""), &out)
	assert.ErrorIs(err, ErrUsage)

	err = uvm("uvm", []string{"-c", path, "extra"}, strings.NewReader(""), &out)
	assert.ErrorIs(err, ErrUsage)
}

func TestUvm_Console(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "SET 5 r0\nDBGREG r0\nHALT\n")

	var out strings.Builder
	err := uvm("uvm", []string{"-c", path}, strings.NewReader(""), &out)
	assert.NoError(err)
	assert.Equal("r0 = 5\n", out.String())
}

func TestUvm_BatchedOutput(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "SET 5 r0\nDBGREG r0\nDBGREGS\nPOP r1\n")

	var out strings.Builder
	err := uvm("uvm", []string{"-c", path, "-batched-output"}, strings.NewReader(""), &out)
	assert.ErrorIs(err, cpu.ErrStackUnderflow)

	lines := strings.Split(out.String(), "\n")
	if assert.Equal(3, len(lines)) {
		assert.Equal("r0 = 5", lines[0])
		assert.True(strings.HasPrefix(lines[1], "regs = [5, 0,"))
		assert.Equal("", lines[2])
	}
}

func TestUvm_Step(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "SET 1 r0\nDBGREG r0\nHALT\n")

	var out strings.Builder
	err := uvm("uvm", []string{"-c", path, "-step"}, strings.NewReader("\n\n\n"), &out)
	assert.NoError(err)

	text := out.String()
	assert.Equal(3, strings.Count(text, "[ENTER] "))
	assert.Contains(text, "line: 1: SET 1 r0")
	assert.Contains(text, "line: 3: HALT")
	assert.Contains(text, "r0 = 1\n")
}

func TestUvm_SaveLoad(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "SET 7 r0\nDBGREG r0\nHALT\n")
	binary := filepath.Join(filepath.Dir(path), "prog.bin")

	var out strings.Builder
	err := uvm("uvm", []string{"-c", path, "-o", binary, "-s"}, strings.NewReader(""), &out)
	assert.NoError(err)
	assert.Equal("", out.String())

	err = uvm("uvm", []string{"-b", binary, "-batched-output"}, strings.NewReader(""), &out)
	assert.NoError(err)
	assert.Equal("r0 = 7\n", out.String())
}
