// Package config loads the optional plotkit.yaml engine configuration.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-plotkit/plotkit/pkg/errors"
	"github.com/go-plotkit/plotkit/pkg/palette"
)

// Version is the engine version, overridable at build time.
var Version = "v0.2.0"

// DefaultDebounce is the redraw delay used when the view has animations
// disabled and no configuration overrides it.
const DefaultDebounce = 16 * time.Millisecond

// Config represents the optional plotkit.yaml configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Palette PaletteConfig `yaml:"palette"`
}

// EngineConfig contains update-engine settings.
type EngineConfig struct {
	// MinVersion rejects loading under an older engine (semver, "vX.Y.Z").
	MinVersion string `yaml:"min_version,omitempty"`
	// DebounceMillis overrides the redraw debounce delay.
	DebounceMillis int `yaml:"debounce_ms,omitempty"`
	// RestartOnResize forces full-restart updates after a resize.
	RestartOnResize bool `yaml:"restart_on_resize,omitempty"`
}

// PaletteConfig selects series colors by SVG 1.1 name.
type PaletteConfig struct {
	Colors []string `yaml:"colors,omitempty"`
}

// LoadOptional reads plotkit.yaml from dir if present.
// A missing file yields a zero Config and no error.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "plotkit.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read plotkit.yaml: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a plotkit.yaml document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse plotkit.yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks version and delay constraints. Failures surface as
// KindConfig plot errors.
func (c *Config) Validate() error {
	if v := c.Engine.MinVersion; v != "" {
		if !semver.IsValid(v) {
			return configErr(fmt.Errorf("engine.min_version %q is not valid semver", v))
		}
		if semver.Compare(v, Version) > 0 {
			return configErr(fmt.Errorf("engine.min_version %s exceeds engine version %s", v, Version))
		}
	}
	if c.Engine.DebounceMillis < 0 {
		return configErr(fmt.Errorf("engine.debounce_ms must not be negative, got %d", c.Engine.DebounceMillis))
	}
	return nil
}

func configErr(err error) error {
	return &errors.PlotError{Op: "config.Config.Validate", Kind: errors.KindConfig, Err: err}
}

// DebounceDelay returns the configured debounce delay, or DefaultDebounce
// when unset.
func (c *Config) DebounceDelay() time.Duration {
	if c.Engine.DebounceMillis > 0 {
		return time.Duration(c.Engine.DebounceMillis) * time.Millisecond
	}
	return DefaultDebounce
}

// BuildPalette resolves the configured color names, or the stock palette
// when none are configured.
func (c *Config) BuildPalette() (*palette.Palette, error) {
	if len(c.Palette.Colors) == 0 {
		return palette.Default(), nil
	}
	return palette.ByName(c.Palette.Colors...)
}
