// Package configuration loads the opc-diag configuration file.
//
// The configuration is a YAML document:
//
//	read:
//	  maxEntries: 10000
//	  maxBlobSize: 104857600
//	log:
//	  level: info
//	  format: text
//
// Settings given on the command line take precedence over the configuration file.
package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"sigs.k8s.io/yaml"

	"github.com/opc-tools/opcdiag/physpkg"
)

// Configuration file constants
const (
	ConfigDirectoryName   = "opc-diag"
	ConfigFileName        = "config.yaml"
	ConfigEnvironmentKey  = "OPCDIAG_CONFIG"
	ConfigCommandArgument = "config"
)

// Config is the top-level configuration.
type Config struct {
	Read ReadConfig `json:"read,omitempty"`
	Log  LogConfig  `json:"log,omitempty"`

	// sources are the files the configuration was loaded from.
	sources []string
}

// ReadConfig limits what packages are accepted. Zero values mean unlimited.
type ReadConfig struct {
	MaxEntries  int   `json:"maxEntries,omitempty"`
	MaxBlobSize int64 `json:"maxBlobSize,omitempty"`
}

// LogConfig holds logging defaults used when no logging flags are set.
type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

// Sources returns the files the configuration was loaded from, in the order they were applied.
func (c *Config) Sources() []string {
	if c == nil {
		return nil
	}
	return c.sources
}

// ReadOptions converts the read settings to physpkg.ReadOptions.
func (c *Config) ReadOptions() physpkg.ReadOptions {
	if c == nil {
		return physpkg.ReadOptions{}
	}
	return physpkg.ReadOptions{
		MaxEntries:  c.Read.MaxEntries,
		MaxBlobSize: c.Read.MaxBlobSize,
	}
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Read.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("read.maxEntries must not be negative: %d", c.Read.MaxEntries))
	}
	if c.Read.MaxBlobSize < 0 {
		errs = append(errs, fmt.Errorf("read.maxBlobSize must not be negative: %d", c.Read.MaxBlobSize))
	}
	return errors.Join(errs...)
}

// Decode parses a configuration document. Unknown fields are rejected.
func Decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Encode renders cfg as YAML.
func Encode(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Load reads and decodes the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %q: %w", path, err)
	}
	cfg, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration %q: %w", path, err)
	}
	cfg.sources = []string{path}
	return cfg, nil
}

// Lookup returns the configuration to use.
//
// If explicit is set, only that file is loaded and it must exist. Otherwise all
// existing files of the following locations are merged, earlier locations taking
// precedence over later ones:
//  1. The path in the OPCDIAG_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/opc-diag/config.yaml
//  3. $HOME/.config/opc-diag/config.yaml
//
// If none exists, an empty configuration is returned.
func Lookup(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	paths := Paths()
	cfgs := make([]*Config, 0, len(paths))
	for _, path := range slices.Backward(paths) {
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat configuration %q: %w", path, err)
		}
		cfg, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	if len(cfgs) == 0 {
		return &Config{}, nil
	}
	return Merge(cfgs...), nil
}

// Paths returns the well known configuration locations in lookup order.
func Paths() []string {
	var paths []string
	if env := os.Getenv(ConfigEnvironmentKey); env != "" {
		paths = append(paths, env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirectoryName, ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirectoryName, ConfigFileName))
	}
	return paths
}

// Merge merges the provided configs into a single config.
// Later configs override non-zero values of earlier ones.
func Merge(configs ...*Config) *Config {
	if len(configs) == 0 {
		return nil
	}

	merged := new(Config)
	for _, config := range configs {
		if config == nil {
			continue
		}
		merged.sources = append(merged.sources, config.sources...)
		if config.Read.MaxEntries != 0 {
			merged.Read.MaxEntries = config.Read.MaxEntries
		}
		if config.Read.MaxBlobSize != 0 {
			merged.Read.MaxBlobSize = config.Read.MaxBlobSize
		}
		if config.Log.Level != "" {
			merged.Log.Level = config.Log.Level
		}
		if config.Log.Format != "" {
			merged.Log.Format = config.Log.Format
		}
	}

	return merged
}
