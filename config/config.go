// Package config handles modvm.toml machine configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/modvm/vm"
)

// FILENAME is the default configuration file name.
const FILENAME = "modvm.toml"

// Config represents a modvm.toml configuration.
type Config struct {
	Machine Machine `toml:"machine"`
	Trace   Trace   `toml:"trace"`
	Output  Output  `toml:"output"`
}

// Machine configures the execution engine.
type Machine struct {
	MaxDepth int `toml:"max_depth"` // Call depth limit.
	MaxTicks int `toml:"max_ticks"` // Instruction budget, 0 for unlimited.
}

// Trace configures diagnostics.
type Trace struct {
	Enabled bool   `toml:"enabled"` // Send trace events to the log.
	Verbose bool   `toml:"verbose"` // Log every instruction.
	Level   int    `toml:"level"`   // commonlog verbosity.
	Locale  string `toml:"locale"`  // Message locale override.
}

// Output configures the OUT tape.
type Output struct {
	Path     string `toml:"path"`     // Output file, "-" for stdout.
	Capacity int    `toml:"capacity"` // Byte limit, 0 for unlimited.
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Machine: Machine{
			MaxDepth: vm.STACK_LIMIT,
		},
		Trace: Trace{
			Level: 1,
		},
		Output: Output{
			Path: "-",
		},
	}
}

// Load parses a configuration file. Missing values take their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	return Parse(string(data))
}

// Parse parses configuration text. Missing values take their defaults.
func Parse(text string) (*Config, error) {
	c := Default()
	if _, err := toml.Decode(text, c); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the configuration ranges.
func (c *Config) Validate() error {
	if c.Machine.MaxDepth <= 0 {
		return fmt.Errorf("machine.max_depth must be positive, got %d", c.Machine.MaxDepth)
	}
	if c.Machine.MaxTicks < 0 {
		return fmt.Errorf("machine.max_ticks must not be negative, got %d", c.Machine.MaxTicks)
	}
	if c.Output.Capacity < 0 {
		return fmt.Errorf("output.capacity must not be negative, got %d", c.Output.Capacity)
	}
	if len(c.Output.Path) == 0 {
		c.Output.Path = "-"
	}
	return nil
}

// Apply configures a machine.
func (c *Config) Apply(m *vm.Machine) {
	m.MaxDepth = c.Machine.MaxDepth
	m.MaxTicks = c.Machine.MaxTicks
	m.Verbose = c.Trace.Verbose
}
