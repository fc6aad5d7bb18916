// Package config provides configuration management for wy.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/wenyan-cli/internal/library"
	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
	"github.com/open-cli-collective/wenyan-cli/pkg/wenyan"
)

// Config holds the wy configuration.
type Config struct {
	LibraryDir   string   `yaml:"library_dir,omitempty"`
	WygPackages  []string `yaml:"wyg_packages,omitempty"`
	Compiler     string   `yaml:"compiler,omitempty"`
	Wyg          string   `yaml:"wyg,omitempty"`
	Roman        string   `yaml:"roman,omitempty"`
	Strict       bool     `yaml:"strict,omitempty"`
	MaxSteps     *int     `yaml:"max_steps,omitempty"` // nil means macro.DefaultMaxSteps, 0 means unlimited
	Language     string   `yaml:"language,omitempty"`
	OutputFormat string   `yaml:"output_format,omitempty"`
}

// EnvVars lists every environment variable LoadFromEnv reads.
var EnvVars = []string{
	"WY_LIBRARY_DIR", "WY_PACKAGES", "WY_COMPILER", "WY_WYG",
	"WY_ROMAN", "WY_STRICT", "WY_MAX_STEPS", "WY_LANG",
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if _, err := wenyan.ParseRomanizeSystem(c.Roman); err != nil {
		return err
	}
	if c.MaxSteps != nil && *c.MaxSteps < 0 {
		return errors.New("max_steps must not be negative")
	}
	switch c.OutputFormat {
	case "", "table", "json", "plain":
	default:
		return fmt.Errorf("invalid output_format %q", c.OutputFormat)
	}
	return nil
}

// ApplyDefaults fills in empty fields.
func (c *Config) ApplyDefaults() {
	if c.LibraryDir == "" {
		c.LibraryDir = library.DefaultDir
	}
	if c.WygPackages == nil {
		c.WygPackages = append([]string(nil), library.DefaultPackages...)
	}
	if c.Compiler == "" {
		c.Compiler = "wenyan"
	}
	if c.Wyg == "" {
		c.Wyg = library.DefaultCommand
	}
	if c.Roman == "" {
		c.Roman = string(wenyan.RomanNone)
	}
}

// Steps returns the macro substitution budget.
func (c *Config) Steps() int {
	if c.MaxSteps == nil {
		return macro.DefaultMaxSteps
	}
	return *c.MaxSteps
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Unparseable numbers and booleans are ignored.
func (c *Config) LoadFromEnv() {
	if dir := os.Getenv("WY_LIBRARY_DIR"); dir != "" {
		c.LibraryDir = dir
	}
	if pkgs := os.Getenv("WY_PACKAGES"); pkgs != "" {
		c.WygPackages = splitList(pkgs)
	}
	if compiler := os.Getenv("WY_COMPILER"); compiler != "" {
		c.Compiler = compiler
	}
	if wyg := os.Getenv("WY_WYG"); wyg != "" {
		c.Wyg = wyg
	}
	if roman := os.Getenv("WY_ROMAN"); roman != "" {
		c.Roman = roman
	}
	if strict, err := strconv.ParseBool(os.Getenv("WY_STRICT")); err == nil {
		c.Strict = strict
	}
	if steps, err := strconv.Atoi(os.Getenv("WY_MAX_STEPS")); err == nil {
		c.MaxSteps = &steps
	}
	// WY_LANG always wins; the locale only fills an unset language
	if lang := os.Getenv("WY_LANG"); lang != "" {
		c.Language = lang
	} else if c.Language == "" {
		c.Language = os.Getenv("LANG")
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "wy", "config.yml")
	}

	// Fall back to ~/.config/wy/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".wy", "config.yml")
	}

	return filepath.Join(home, ".config", "wy", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file, overrides it with environment
// variables and fills in defaults. A missing file is not an error, but a
// file that cannot be parsed is.
func LoadWithEnv(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}
