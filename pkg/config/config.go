// Package config loads optional TOML configuration for the CLI.
//
// Configuration supplies defaults only: any flag the user sets explicitly
// wins over the file. Lookup order is an explicit --config path, then
// ./incgraph.toml, then $XDG_CONFIG_HOME/incgraph/config.toml with the
// usual ~/.config fallback. A missing file is not an error; a present but
// unparsable file is.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/incgraph/incgraph/pkg/errors"
)

// FileName is the per-project configuration file looked up in the current
// directory.
const FileName = "incgraph.toml"

// Config holds the file-supplied defaults for scanning and rendering.
type Config struct {
	Name       string   `toml:"name"`       // graph name
	Mode       string   `toml:"mode"`       // file or module granularity
	Format     string   `toml:"format"`     // pdf, svg, png, or gv
	Engine     string   `toml:"engine"`     // dot or embedded
	Colors     bool     `toml:"colors"`     // per-module fill colors
	KnownOnly  bool     `toml:"known_only"` // hide unresolved include targets
	Recursive  bool     `toml:"recursive"`  // descend into subdirectories
	Palette    []string `toml:"palette"`    // fill-color cycle override
	Extensions []string `toml:"extensions"` // extension allow-list
	Exclude    []string `toml:"exclude"`    // directory names skipped when recursive
	OutputDir  string   `toml:"output_dir"` // where artifacts are written
	Addr       string   `toml:"addr"`       // serve listen address
}

// Load parses the configuration file at path. The file must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return &cfg, nil
}

// LoadDefault loads the configuration from the standard lookup locations.
// When no file exists anywhere, it returns an empty configuration.
func LoadDefault() (*Config, error) {
	path, ok := Locate()
	if !ok {
		return &Config{}, nil
	}
	return Load(path)
}

// Locate returns the first configuration file found in the lookup order
// and whether one was found at all.
func Locate() (string, bool) {
	candidates := []string{FileName}
	if dir, err := configDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// configDir returns the per-user configuration directory following the XDG
// convention (~/.config/incgraph).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "incgraph"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "incgraph"), nil
}
