// Package config loads user defaults for drawing options from a TOML
// file. Values from the file seed the CLI flags; explicit flags always
// win.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "drawtree"

// Config holds user-level defaults. Zero values mean "not set" and
// leave the built-in defaults untouched.
type Config struct {
	// Scale multiplies all picture coordinates.
	Scale float64 `toml:"scale"`

	// Grid draws the green alignment grid instead of commenting it out.
	Grid bool `toml:"grid"`

	// DPI is the raster resolution for PNG output.
	DPI int `toml:"dpi"`

	// Radius is the information set outline radius in picture units.
	Radius float64 `toml:"radius"`

	// Elongation stretches singleton information set outlines
	// horizontally and vertically.
	Elongation [2]float64 `toml:"elongation"`

	// NoCache disables the compiled artifact cache.
	NoCache bool `toml:"no_cache"`
}

// Path returns the config file location using the XDG standard
// (~/.config/drawtree/config.toml).
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at the default location. A missing file
// is not an error and returns the zero Config.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file from an explicit path. A missing file
// is not an error and returns the zero Config.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
