// Package config loads the assembler's run options from an optional
// TOML file, through a layered Default/Load/LoadFrom/Save/SaveTo API.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Options holds everything that changes the assembler's behavior.
// ExtendedMode gates the bonus-only Pass 1 steps (literal pool
// emission, program-block reorder, external-definition finalization),
// replacing the source's process-wide "bonus" flag per the design
// notes — it is threaded explicitly through Assemble rather than read
// from a global.
type Options struct {
	Assembler struct {
		ExtendedMode bool `toml:"extended_mode"`
	} `toml:"assembler"`

	Diagnostics DiagnosticsOptions `toml:"diagnostics"`
}

// DiagnosticsOptions controls how the diagnostic table printer renders
// the Event stream: ToStderr is a config-file-driven default for
// whether listings print at all (the CLI's --listing flag can still
// force them on for one run), BytesPerLine wraps long object-code
// columns in the instruction listing, and NumberFormat picks hex or
// decimal for every address/location column.
type DiagnosticsOptions struct {
	ToStderr     bool   `toml:"to_stderr"`
	BytesPerLine int    `toml:"bytes_per_line"`
	NumberFormat string `toml:"number_format"` // hex, dec
}

// Default returns an Options with the assembler's conventional
// defaults: basic (non-extended) mode, diagnostics suppressed.
func Default() *Options {
	o := &Options{}
	o.Assembler.ExtendedMode = false
	o.Diagnostics.ToStderr = false
	o.Diagnostics.BytesPerLine = 16
	o.Diagnostics.NumberFormat = "hex"
	return o
}

// Path returns the platform-specific config file path.
func Path() string {
	var dir string

	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "sicxeasm")

	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "sicxeasm.toml"
		}
		dir = filepath.Join(home, ".config", "sicxeasm")

	default:
		return "sicxeasm.toml"
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "sicxeasm.toml"
	}
	return filepath.Join(dir, "sicxeasm.toml")
}

// Load reads the default config file, falling back to Default() when
// it does not exist.
func Load() (*Options, error) {
	return LoadFrom(Path())
}

// LoadFrom reads path, falling back to Default() when it does not
// exist.
func LoadFrom(path string) (*Options, error) {
	o := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return o, nil
	}

	if _, err := toml.DecodeFile(path, o); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return o, nil
}

// Save writes o to the default config file.
func (o *Options) Save() error {
	return o.SaveTo(Path())
}

// SaveTo writes o to path.
func (o *Options) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(o)
}
