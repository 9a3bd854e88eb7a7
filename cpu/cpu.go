package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"
)

// CodeFlag is the result of the last comparison.
type CodeFlag int

const (
	FLAG_EQUAL   = CodeFlag(0) // eq
	FLAG_LESS    = CodeFlag(1) // lt
	FLAG_GREATER = CodeFlag(2) // gt
)

func (flag CodeFlag) String() string {
	switch flag {
	case FLAG_EQUAL:
		return "eq"
	case FLAG_LESS:
		return "lt"
	case FLAG_GREATER:
		return "gt"
	}
	return fmt.Sprintf("CodeFlag(%d)", int(flag))
}

// compare returns the flag for the sign of (a - b).
func compare(a, b int64) CodeFlag {
	switch {
	case a < b:
		return FLAG_LESS
	case a > b:
		return FLAG_GREATER
	}
	return FLAG_EQUAL
}

// CodeStatus is the run state of a Cpu.
type CodeStatus int

const (
	STATUS_RUNNING = CodeStatus(0) // running
	STATUS_HALTED  = CodeStatus(1) // halted
	STATUS_FAULTED = CodeStatus(2) // faulted
)

func (status CodeStatus) String() string {
	switch status {
	case STATUS_RUNNING:
		return "running"
	case STATUS_HALTED:
		return "halted"
	case STATUS_FAULTED:
		return "faulted"
	}
	return fmt.Sprintf("CodeStatus(%d)", int(status))
}

// State is a copy of the execution state of a Cpu.
type State struct {
	Ip       uint64
	Register []int64
	Stack    []int64
	Calls    []uint64
	Flag     CodeFlag
	Status   CodeStatus
	Ticks    int
}

// Cpu is the execution engine. It owns the register file, data stack,
// call stack, comparison flag and instruction pointer of a single run.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Config Config // Sizes and output sink.

	Ip       uint64        // Byte offset of the next instruction.
	Register []int64       // Register bank.
	Stack    Stack[int64]  // Data stack.
	Calls    Stack[uint64] // Call stack of return addresses.
	Flag     CodeFlag      // Last comparison result.
	Status   CodeStatus    // Run state.
	Ticks    int           // Executed instruction counter.
}

// NewCpu creates a new Cpu.
func NewCpu(config Config) (cpu *Cpu) {
	config = config.withDefaults()

	cpu = &Cpu{
		Config:   config,
		Register: make([]int64, config.RegisterCount),
		Stack:    Stack[int64]{Limit: config.StackCapacity},
		Calls:    Stack[uint64]{Limit: config.CallStackCapacity},
	}

	return
}

// Run assembles a fresh Cpu from config and runs prog until it halts or
// faults. The final state is returned in both cases.
func Run(prog *Program, config Config) (state State, err error) {
	cpu := NewCpu(config)
	err = cpu.Run(prog)
	state = cpu.State()
	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"REGISTER_COUNT":      fmt.Sprintf("%v", cpu.Config.RegisterCount),
		"STACK_CAPACITY":      fmt.Sprintf("%v", cpu.Config.StackCapacity),
		"CALL_STACK_CAPACITY": fmt.Sprintf("%v", cpu.Config.CallStackCapacity),
	})
}

// Reset the Cpu state.
// - Clears the registers and both stacks.
// - Sets the flag to FLAG_EQUAL and the ip to 0.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register)
	cpu.Stack.Reset()
	cpu.Calls.Reset()
	cpu.Flag = FLAG_EQUAL
	cpu.Status = STATUS_RUNNING
	cpu.Ip = 0
	cpu.Ticks = 0
}

// State returns a copy of the current execution state.
func (cpu *Cpu) State() State {
	return State{
		Ip:       cpu.Ip,
		Register: slices.Clone(cpu.Register),
		Stack:    slices.Clone(cpu.Stack.Data),
		Calls:    slices.Clone(cpu.Calls.Data),
		Flag:     cpu.Flag,
		Status:   cpu.Status,
		Ticks:    cpu.Ticks,
	}
}

// String returns the current Cpu state as a string.
func (cpu *Cpu) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "% 6s: %04x\n", "ip", cpu.Ip)
	fmt.Fprintf(&text, "% 6s: %v\n", "status", cpu.Status)
	fmt.Fprintf(&text, "% 6s: %v\n", "flag", cpu.Flag)
	for n, val := range cpu.Register {
		fmt.Fprintf(&text, "% 6s: %d\n", fmt.Sprintf("r%d", n), val)
	}
	if val, ok := cpu.Stack.Peek(); ok {
		fmt.Fprintf(&text, "% 6s: %d (%d)\n", "stack", val, cpu.Stack.Depth())
	} else {
		fmt.Fprintf(&text, "% 6s: -\n", "stack")
	}
	if val, ok := cpu.Calls.Peek(); ok {
		fmt.Fprintf(&text, "% 6s: %04x (%d)\n", "calls", val, cpu.Calls.Depth())
	} else {
		fmt.Fprintf(&text, "% 6s: -\n", "calls")
	}

	return text.String()
}

// Run executes prog until the Cpu halts or faults.
// A Cpu that has already faulted returns ErrFaulted.
func (cpu *Cpu) Run(prog *Program) (err error) {
	for cpu.Status == STATUS_RUNNING {
		err = cpu.Tick(prog)
		if err != nil {
			return
		}
	}

	if cpu.Status == STATUS_FAULTED {
		err = ErrFaulted
	}

	return
}

// Tick executes a single instruction of prog.
// Once stopped, Tick returns ErrHalted after a HALT, or ErrFaulted after a
// fault, until the Cpu is Reset.
func (cpu *Cpu) Tick(prog *Program) (err error) {
	switch cpu.Status {
	case STATUS_HALTED:
		err = ErrHalted
		return
	case STATUS_FAULTED:
		err = ErrFaulted
		return
	}

	defer func() {
		if err != nil {
			cpu.Status = STATUS_FAULTED
			err = &ErrFault{Ip: cpu.Ip, Err: err}
		}
	}()

	ins, err := prog.Decode(cpu.Ip)
	if errors.Is(err, ErrTruncated) {
		err = ErrIpOutOfBounds
	}
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Ip, ins)
	}

	err = cpu.Execute(ins)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// push pushes onto the data stack.
func (cpu *Cpu) push(value int64) (err error) {
	if cpu.Stack.Full() {
		err = ErrStackOverflow
		return
	}
	cpu.Stack.Push(value)
	return
}

// pop pops from the data stack.
func (cpu *Cpu) pop() (value int64, err error) {
	value, ok := cpu.Stack.Pop()
	if !ok {
		err = ErrStackUnderflow
	}
	return
}

// frame validates a register frame size for PUSHRF and POPRF.
func (cpu *Cpu) frame(size int64) (count int, err error) {
	if size < 0 || size > int64(len(cpu.Register)) {
		err = ErrRegisterInvalid
		return
	}
	count = int(size)
	return
}

// taken returns true if a conditional jump is taken for the current flag.
func (cpu *Cpu) taken(op Opcode) bool {
	switch op {
	case OP_JEQ:
		return cpu.Flag == FLAG_EQUAL
	case OP_JNE:
		return cpu.Flag != FLAG_EQUAL
	case OP_JLT:
		return cpu.Flag == FLAG_LESS
	case OP_JLE:
		return cpu.Flag != FLAG_GREATER
	case OP_JGT:
		return cpu.Flag == FLAG_GREATER
	case OP_JGE:
		return cpu.Flag != FLAG_LESS
	}
	return false
}

// Execute executes a single decoded instruction located at the ip.
// The operands must match the opcode signature.
// On error no state is modified.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	next_ip := cpu.Ip + uint64(ins.Size())

	if !ins.Opcode.Valid() {
		err = ErrOpcodeUnknown
		return
	}

	ops := ins.Operands
	sig := ins.Opcode.Signature()
	if len(ops) != len(sig) {
		err = ErrOperandArity
		return
	}
	for n, operand := range ops {
		if operand.Kind != sig[n] {
			err = ErrOperandKind
			return
		}
		if operand.Kind == KIND_REGISTER && operand.Register() >= len(cpu.Register) {
			err = ErrRegisterInvalid
			return
		}
	}

	// Register operand n.
	reg := func(n int) *int64 {
		return &cpu.Register[ops[n].Register()]
	}

	switch ins.Opcode {
	case OP_HALT:
		cpu.Status = STATUS_HALTED
	case OP_SET:
		*reg(1) = ops[0].Literal()
	case OP_PUSH:
		err = cpu.push(*reg(0))
	case OP_PUSHL:
		err = cpu.push(ops[0].Literal())
	case OP_POP:
		var value int64
		value, err = cpu.pop()
		if err == nil {
			*reg(0) = value
		}
	case OP_PUSHRF:
		var count int
		count, err = cpu.frame(ops[0].Literal())
		if err != nil {
			return
		}
		if free := cpu.Stack.Free(); free >= 0 && free < count {
			err = ErrStackOverflow
			return
		}
		for n := range count {
			cpu.Stack.Push(cpu.Register[n])
		}
	case OP_POPRF:
		var count int
		count, err = cpu.frame(ops[0].Literal())
		if err != nil {
			return
		}
		if cpu.Stack.Depth() < count {
			err = ErrStackUnderflow
			return
		}
		for n := count - 1; n >= 0; n-- {
			cpu.Register[n], _ = cpu.Stack.Pop()
		}
	case OP_ADD:
		*reg(1) += *reg(0)
	case OP_ADDL:
		*reg(1) += ops[0].Literal()
	case OP_SUB:
		*reg(1) -= *reg(0)
	case OP_SUBLA:
		*reg(1) -= ops[0].Literal()
	case OP_SUBLB:
		*reg(1) = ops[0].Literal() - *reg(1)
	case OP_MUL:
		*reg(1) *= *reg(0)
	case OP_MULL:
		*reg(1) *= ops[0].Literal()
	case OP_DIV:
		if *reg(0) == 0 {
			err = ErrDivisionByZero
			return
		}
		*reg(1) /= *reg(0)
	case OP_DIVLA:
		if ops[0].Literal() == 0 {
			err = ErrDivisionByZero
			return
		}
		*reg(1) /= ops[0].Literal()
	case OP_DIVLB:
		if *reg(1) == 0 {
			err = ErrDivisionByZero
			return
		}
		*reg(1) = ops[0].Literal() / *reg(1)
	case OP_MOD:
		if *reg(0) == 0 {
			err = ErrDivisionByZero
			return
		}
		*reg(1) %= *reg(0)
	case OP_INC:
		*reg(0) += 1
	case OP_DEC:
		*reg(0) -= 1
	case OP_CMP:
		cpu.Flag = compare(*reg(1), *reg(0))
	case OP_CMPL:
		cpu.Flag = compare(*reg(1), ops[0].Literal())
	case OP_JMP:
		next_ip = ops[0].Address()
	case OP_JEQ, OP_JNE, OP_JLT, OP_JLE, OP_JGT, OP_JGE:
		if cpu.taken(ins.Opcode) {
			next_ip = ops[0].Address()
		}
	case OP_CALL:
		if cpu.Calls.Full() {
			err = ErrCallStackOverflow
			return
		}
		cpu.Calls.Push(next_ip)
		next_ip = ops[0].Address()
	case OP_RET:
		var ok bool
		next_ip, ok = cpu.Calls.Pop()
		if !ok {
			err = ErrCallStackUnderflow
			return
		}
	case OP_DBGREG:
		if cpu.Config.Output != nil {
			err = cpu.Config.Output.DebugRegister(ops[0].Register(), *reg(0))
		}
	case OP_DBGREGS:
		if cpu.Config.Output != nil {
			err = cpu.Config.Output.DebugRegisters(slices.Clone(cpu.Register))
		}
	default:
		err = ErrOpcodeUnknown
	}

	if err != nil {
		return
	}

	cpu.Ip = next_ip

	return
}
