// Package config loads optional driver defaults from a TOML file.
// Command-line flags always win over the config file, which wins over
// built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultTool is the external executable invoked when neither the
// config file nor the --tool flag names one.
const DefaultTool = "resim"

// Config holds driver defaults.
type Config struct {
	// Tool is the external ledger-simulator executable.
	Tool string

	// Journal is the path to the SQLite run journal.
	// Empty disables journaling.
	Journal string

	// ExtraArgs are appended verbatim to every tool invocation,
	// before any extra args supplied on the command line.
	ExtraArgs []string
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{Tool: DefaultTool}
}

// simsmoke.toml key mapping.
type fileConfig struct {
	Tool      string   `toml:"tool"`
	Journal   string   `toml:"journal"`
	ExtraArgs []string `toml:"extra_args"`
}

// Load reads a TOML config file and overlays it onto the defaults.
// Only keys present in the file override defaults, so an empty file is
// equivalent to no file.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("tool") {
		cfg.Tool = strings.TrimSpace(raw.Tool)
		if cfg.Tool == "" {
			return Config{}, fmt.Errorf("load config: tool must not be empty")
		}
	}
	if meta.IsDefined("journal") {
		cfg.Journal = strings.TrimSpace(raw.Journal)
	}
	if meta.IsDefined("extra_args") {
		cfg.ExtraArgs = raw.ExtraArgs
	}

	return cfg, nil
}
