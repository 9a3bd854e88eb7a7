package emulator

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	ErrTickLimit = errors.New(f("tick limit exceeded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrSettings indicates a malformed settings file.
type ErrSettings struct {
	Path string
	Err  error
}

func (err *ErrSettings) Error() string {
	return f("settings %v: %v", err.Path, err.Err)
}

func (err *ErrSettings) Unwrap() error {
	return err.Err
}

// ErrSnapshot indicates a malformed state snapshot.
type ErrSnapshot struct {
	Err error
}

func (err *ErrSnapshot) Error() string {
	return f("snapshot: %v", err.Err)
}

func (err *ErrSnapshot) Unwrap() error {
	return err.Err
}
