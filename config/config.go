// Package config loads the pipeline's TOML-backed settings: the default
// origin, listing/printer column layout, and the disassembler's configured
// entry points, following the same DefaultConfig/LoadFrom/SaveTo shape the
// teacher uses for its own config file.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/chip8ir/chip8ir/printer"
	"github.com/pkg/errors"
)

// Config is the pipeline's full configuration surface.
type Config struct {
	Assembler struct {
		Origin uint16 `toml:"origin"`
	} `toml:"assembler"`

	Disassembler struct {
		EntryPoints []uint16 `toml:"entry_points"`
	} `toml:"disassembler"`

	Listing struct {
		Style          string `toml:"style"` // "clean" or "listing"
		MnemonicColumn int    `toml:"mnemonic_column"`
	} `toml:"listing"`
}

// DefaultConfig returns the configuration the pipeline uses when no config
// file is present: origin 0x200, clean listing style, 4-column mnemonics.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Assembler.Origin = 0x200
	cfg.Disassembler.EntryPoints = nil
	cfg.Listing.Style = "clean"
	cfg.Listing.MnemonicColumn = 4
	return cfg
}

// configDirName is the per-user config subdirectory chip8ir creates under
// the OS-appropriate base directory (os.UserConfigDir already knows the
// Windows/macOS/XDG split, so this package doesn't re-derive it).
const configDirName = "chip8ir"

// configHome resolves the directory config.toml lives in, falling back to
// the current directory if the platform's config home can't be determined
// or created.
func configHome() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	dir := filepath.Join(base, configDirName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "."
	}
	return dir
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	return filepath.Join(configHome(), "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to defaults for any
// field a partial file leaves unset. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file, creating its parent
// directory if necessary.
func (c *Config) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.Wrap(err, "creating config directory")
		}
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return errors.Wrap(err, "creating config file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrap(err, "encoding config")
	}

	return nil
}

// PrinterOptions translates the Listing section into printer.Options.
func (c *Config) PrinterOptions() printer.Options {
	opts := printer.Options{MnemonicColumn: c.Listing.MnemonicColumn}
	if c.Listing.Style == "listing" {
		opts.Style = printer.StyleListing
	} else {
		opts.Style = printer.StyleClean
	}
	return opts
}
