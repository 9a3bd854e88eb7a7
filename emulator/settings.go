package emulator

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/uvm/cpu"
)

// Settings configures an Emulator. It is usually loaded from a TOML file:
//
//	verbose = false
//	max_ticks = 1000000
//
//	[cpu]
//	registers = 16
//	stack = 256
//	call_stack = 256
type Settings struct {
	Verbose  bool       `toml:"verbose"`
	MaxTicks int        `toml:"max_ticks"`
	Cpu      cpu.Config `toml:"cpu"`
}

// DefaultSettings returns the default emulator settings.
func DefaultSettings() Settings {
	return Settings{
		Cpu: cpu.DefaultConfig(),
	}
}

// ParseSettings parses TOML settings over the defaults.
func ParseSettings(text string) (settings Settings, err error) {
	settings = DefaultSettings()
	_, err = toml.Decode(text, &settings)
	if err != nil {
		err = &ErrSettings{Err: err}
	}
	return
}

// LoadSettings loads TOML settings from a file.
func LoadSettings(path string) (settings Settings, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	settings, err = ParseSettings(string(data))
	if err != nil {
		err.(*ErrSettings).Path = path
	}

	return
}
