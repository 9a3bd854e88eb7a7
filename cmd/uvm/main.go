// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ezrec/uvm/emulator"
	uvmio "github.com/ezrec/uvm/io"
)

var ErrUsage = errors.New("usage")

func main() {
	err := uvm(os.Args[0], os.Args[1:], os.Stdin, os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// uvm runs the command line, reading step input from stdin and writing
// program output to stdout.
func uvm(name string, args []string, stdin io.Reader, stdout io.Writer) (err error) {
	var compile string
	var binary string
	var output string
	var save bool
	var listing bool
	var config string
	var snapshot string
	var maxTicks int
	var batched bool
	var step bool
	var verbose bool

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.StringVar(&compile, "c", "", ".uvm file to compile")
	flags.StringVar(&binary, "b", "", "binary program to load")
	flags.StringVar(&output, "o", "", "write binary program to file")
	flags.BoolVar(&save, "s", false, "Save program only, do not execute")
	flags.BoolVar(&listing, "l", false, "Print program listing")
	flags.StringVar(&config, "config", "", ".toml settings file")
	flags.StringVar(&snapshot, "snapshot", "", "write final state to .cbor file")
	flags.IntVar(&maxTicks, "max-ticks", 0, "Limit executed instructions (0 is unlimited)")
	flags.BoolVar(&batched, "batched-output", false, "Print debug output after the program ends")
	flags.BoolVar(&step, "step", false, "Show the cpu state and wait for ENTER before each instruction")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")

	err = flags.Parse(args)
	if err != nil {
		return
	}

	if flags.NArg() != 0 {
		err = fmt.Errorf("%w: unknown arguments: %v", ErrUsage, flags.Args())
		return
	}

	if (len(compile) == 0) == (len(binary) == 0) {
		err = fmt.Errorf("%w: exactly one of -c or -b is required", ErrUsage)
		return
	}

	settings := emulator.DefaultSettings()
	if len(config) != 0 {
		settings, err = emulator.LoadSettings(config)
		if err != nil {
			return
		}
	}
	if verbose {
		settings.Verbose = true
	}
	if maxTicks != 0 {
		settings.MaxTicks = maxTicks
	}

	capture := &uvmio.Capture{}
	if batched {
		settings.Cpu.Output = capture
	} else {
		settings.Cpu.Output = &uvmio.Console{Output: stdout}
	}

	emu := emulator.NewEmulator(settings)
	defer emu.Close()

	// Compile a new instruction stream, or load a binary.
	path := compile
	load := emu.Assemble
	if len(binary) != 0 {
		path = binary
		load = emu.Load
	}

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	err = load(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	if listing {
		err = emu.WriteListing(stdout)
		if err != nil {
			return
		}
	}

	if len(output) != 0 {
		var ouf *os.File
		ouf, err = os.Create(output)
		if err != nil {
			return
		}
		err = emu.Save(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			err = fmt.Errorf("%v: %w", output, err)
			return
		}
	}

	if save {
		return
	}

	emu.Reset()
	var runErr error
	if step {
		runErr = emu.Step(stdin, stdout)
	} else {
		runErr = emu.Run()
	}

	if batched {
		_, err = capture.WriteTo(stdout)
		if err != nil {
			return
		}
	}

	if len(snapshot) != 0 {
		var data []byte
		data, err = emu.Snapshot()
		if err == nil {
			err = os.WriteFile(snapshot, data, 0o644)
		}
		if err != nil {
			err = fmt.Errorf("%v: %w", snapshot, err)
			return
		}
	}

	if runErr != nil {
		log.Print(emu.Cpu.String())
		err = fmt.Errorf("%v: %w", path, runErr)
	}

	return
}
