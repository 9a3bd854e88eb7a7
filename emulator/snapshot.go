package emulator

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is the persisted form of a cpu.State.
type Snapshot struct {
	LineNo   int      `cbor:"line"`
	Ip       uint64   `cbor:"ip"`
	Status   string   `cbor:"status"`
	Flag     string   `cbor:"flag"`
	Ticks    int      `cbor:"ticks"`
	Register []int64  `cbor:"registers"`
	Stack    []int64  `cbor:"stack"`
	Calls    []uint64 `cbor:"calls"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("emulator: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MakeSnapshot captures the current state of the emulator.
func (emu *Emulator) MakeSnapshot() Snapshot {
	state := emu.Cpu.State()
	return Snapshot{
		LineNo:   emu.LineNo(),
		Ip:       state.Ip,
		Status:   state.Status.String(),
		Flag:     state.Flag.String(),
		Ticks:    state.Ticks,
		Register: state.Register,
		Stack:    state.Stack,
		Calls:    state.Calls,
	}
}

// Snapshot serializes the current state of the emulator to CBOR.
func (emu *Emulator) Snapshot() ([]byte, error) {
	snap := emu.MakeSnapshot()
	return cborEncMode.Marshal(&snap)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, &ErrSnapshot{Err: err}
	}
	return &snap, nil
}
