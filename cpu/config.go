package cpu

const (
	REGISTER_COUNT      = 16  // Default number of registers.
	STACK_CAPACITY      = 256 // Default data stack depth.
	CALL_STACK_CAPACITY = 256 // Default call stack depth.
)

// Sink receives the output of the DBGREG and DBGREGS instructions.
type Sink interface {
	// DebugRegister reports the value of a single register.
	DebugRegister(index int, value int64) error
	// DebugRegisters reports the values of all registers, in index order.
	DebugRegisters(values []int64) error
}

// Config sizes a Cpu. Zero values select the defaults.
type Config struct {
	RegisterCount     int  `toml:"registers"`
	StackCapacity     int  `toml:"stack"`
	CallStackCapacity int  `toml:"call_stack"`
	Output            Sink `toml:"-"` // If nil, debug output is discarded.
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		RegisterCount:     REGISTER_COUNT,
		StackCapacity:     STACK_CAPACITY,
		CallStackCapacity: CALL_STACK_CAPACITY,
	}
}

// withDefaults replaces unset sizes with the defaults.
func (config Config) withDefaults() Config {
	if config.RegisterCount <= 0 {
		config.RegisterCount = REGISTER_COUNT
	}
	if config.StackCapacity <= 0 {
		config.StackCapacity = STACK_CAPACITY
	}
	if config.CallStackCapacity <= 0 {
		config.CallStackCapacity = CALL_STACK_CAPACITY
	}
	return config
}
