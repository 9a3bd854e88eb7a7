// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"strings"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/internal"
)

var _emulator_defines = map[string]string{
	"UVM": "1",
}

// Emulator state. CPU + program + source listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program.
	Listing  []cpu.Statement
	MaxTicks int // If non-zero, limits the ticks of Run.
}

// NewEmulator creates a new emulator.
func NewEmulator(settings Settings) (emu *Emulator) {
	emu = &Emulator{
		Verbose:  settings.Verbose,
		Cpu:      cpu.NewCpu(settings.Cpu),
		Program:  &cpu.Program{},
		MaxTicks: settings.MaxTicks,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble assembles source text as the current program.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Listing = asm.Statement

	return
}

// Load loads a persisted binary as the current program.
// The binary has no listing, so LineNo() reports 0.
func (emu *Emulator) Load(input io.Reader) (err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	prog, err := cpu.Deserialize(data)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Listing = nil

	return
}

// Save writes the current program as a persisted binary.
func (emu *Emulator) Save(output io.Writer) (err error) {
	_, err = output.Write(cpu.Serialize(emu.Program))
	return
}

// Close the emulator
func (emu *Emulator) Close() (err error) {
	return
}

// Reset the cpu state, ready to run from the start of the program.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Ip)
}

// Statement returns the listing statement for the current instruction.
func (emu *Emulator) Statement() (st *cpu.Statement, ok bool) {
	ip := emu.Ip()
	for n := range emu.Listing {
		st = &emu.Listing[n]
		if ip >= st.Ip && ip < st.Ip+st.Instruction.Size() {
			ok = true
			return
		}
	}

	st = nil
	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	st, ok := emu.Statement()
	if !ok {
		return 0
	}

	return st.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick(emu.Program)
	done = emu.Cpu.Status != cpu.STATUS_RUNNING
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
	}

	return
}

// limit returns ErrTickLimit once MaxTicks instructions have executed.
func (emu *Emulator) limit() (err error) {
	if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
		err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrTickLimit}
	}
	return
}

// Run ticks the emulator until the program halts, faults, or exceeds
// MaxTicks.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		err = emu.limit()
		if err != nil {
			return
		}
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Step ticks the emulator like Run, but before each instruction writes the
// cpu state and source line to output, and waits for a line from input.
// An exhausted input no longer waits.
func (emu *Emulator) Step(input io.Reader, output io.Writer) (err error) {
	reader := bufio.NewReader(input)

	for done := false; !done; {
		err = emu.limit()
		if err != nil {
			return
		}

		_, err = io.WriteString(output, emu.Cpu.String())
		if err != nil {
			return
		}
		if st, ok := emu.Statement(); ok {
			fmt.Fprintf(output, "% 6s: %d: %v\n", "line", st.LineNo, strings.TrimSpace(st.Line))
		}
		_, err = io.WriteString(output, "[ENTER] ")
		if err != nil {
			return
		}

		_, err = reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return
		}

		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// WriteListing writes the program listing, with source lines when known.
func (emu *Emulator) WriteListing(w io.Writer) (err error) {
	if len(emu.Listing) == 0 {
		return emu.Program.Disassemble(w)
	}

	for _, st := range emu.Listing {
		_, err = fmt.Fprintf(w, "%04x: %-24v ; %d: %v\n", st.Ip, st.Instruction, st.LineNo, strings.TrimSpace(st.Line))
		if err != nil {
			return
		}
	}

	return
}
