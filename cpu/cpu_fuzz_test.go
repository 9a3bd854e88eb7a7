package cpu

import (
	"errors"
	"testing"
)

func FuzzDeserialize(f *testing.F) {
	for _, sample := range samplePrograms {
		prog, err := Assemble(sample.source)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(Serialize(prog))
	}
	f.Add([]byte{})
	f.Add([]byte{0xff})
	f.Add([]byte{0x01, 0x02})

	f.Fuzz(func(t *testing.T, data []byte) {
		prog, err := Deserialize(data)
		if err != nil {
			var decode *ErrDecode
			if !errors.As(err, &decode) {
				t.Fatalf("unexpected error type: %v", err)
			}
			if decode.Offset < 0 || decode.Offset >= len(data) {
				t.Fatalf("offset %d outside of %d bytes", decode.Offset, len(data))
			}
			return
		}

		size := 0
		for ip, ins := range prog.Instructions() {
			if ip != size {
				t.Fatalf("instruction at %d, expected %d", ip, size)
			}
			size += ins.Size()
		}
		if size != len(data) {
			t.Fatalf("decoded %d of %d bytes", size, len(data))
		}
	})
}

func FuzzTick(f *testing.F) {
	for _, sample := range samplePrograms {
		prog, err := Assemble(sample.source)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(Serialize(prog))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		prog, err := Deserialize(data)
		if err != nil {
			return
		}

		cpu := NewCpu(Config{RegisterCount: 4, StackCapacity: 16, CallStackCapacity: 16})
		for range 1000 {
			before := cpu.State()
			err = cpu.Tick(prog)
			if err == nil {
				continue
			}
			if cpu.Status == STATUS_HALTED {
				return
			}
			var fault *ErrFault
			if !errors.As(err, &fault) {
				t.Fatalf("unexpected error type: %v", err)
			}
			if cpu.Status != STATUS_FAULTED {
				t.Fatalf("fault %v left status %v", err, cpu.Status)
			}
			if fault.Ip != before.Ip || cpu.Ip != before.Ip {
				t.Fatalf("fault %v moved ip from %#x", err, before.Ip)
			}
			return
		}
	})
}
