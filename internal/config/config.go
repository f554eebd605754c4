// Package config carries the engine-wide tunables consumed by the DSL
// compiler, the command dispatcher, and script execution limits: a
// plain data struct built by a Default constructor, validated once,
// then passed by value down through the pipeline rather than threaded
// through globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds tunables shared across the engine.
type Config struct {
	CoalesceWindow time.Duration
	MaxUndoLevels  int
	MaxEffectCount int
	MaxInlineDepth int
	MaxStackDepth  int
}

// Default returns the engine's built-in tunables.
func Default() Config {
	return Config{
		CoalesceWindow: 500 * time.Millisecond,
		MaxUndoLevels:  50,
		MaxEffectCount: 10000,
		MaxInlineDepth: 16,
		MaxStackDepth:  256,
	}
}

// Validate rejects tunables that would make the engine misbehave rather
// than merely run slow.
func (c Config) Validate() error {
	if c.CoalesceWindow < 0 {
		return fmt.Errorf("config: coalesce_window must not be negative, got %s", c.CoalesceWindow)
	}
	if c.MaxUndoLevels < 1 {
		return fmt.Errorf("config: max_undo_levels must be at least 1, got %d", c.MaxUndoLevels)
	}
	if c.MaxEffectCount < 1 {
		return fmt.Errorf("config: max_effect_count must be at least 1, got %d", c.MaxEffectCount)
	}
	if c.MaxInlineDepth < 1 {
		return fmt.Errorf("config: max_inline_depth must be at least 1, got %d", c.MaxInlineDepth)
	}
	if c.MaxStackDepth < 1 {
		return fmt.Errorf("config: max_stack_depth must be at least 1, got %d", c.MaxStackDepth)
	}
	return nil
}

// rawConfig mirrors Config but keeps the coalesce window as a string so
// TOML/YAML can express it in Go duration syntax ("500ms") rather than a
// raw integer of unstated units. Every field is a pointer so an absent
// key in the file leaves the corresponding Config field at its Default.
type rawConfig struct {
	CoalesceWindow *string `toml:"coalesce_window" yaml:"coalesce_window"`
	MaxUndoLevels  *int    `toml:"max_undo_levels" yaml:"max_undo_levels"`
	MaxEffectCount *int    `toml:"max_effect_count" yaml:"max_effect_count"`
	MaxInlineDepth *int    `toml:"max_inline_depth" yaml:"max_inline_depth"`
	MaxStackDepth  *int    `toml:"max_stack_depth" yaml:"max_stack_depth"`
}

func (c *Config) applyRaw(raw rawConfig) error {
	if raw.CoalesceWindow != nil {
		d, err := time.ParseDuration(*raw.CoalesceWindow)
		if err != nil {
			return fmt.Errorf("config: coalesce_window: %w", err)
		}
		c.CoalesceWindow = d
	}
	if raw.MaxUndoLevels != nil {
		c.MaxUndoLevels = *raw.MaxUndoLevels
	}
	if raw.MaxEffectCount != nil {
		c.MaxEffectCount = *raw.MaxEffectCount
	}
	if raw.MaxInlineDepth != nil {
		c.MaxInlineDepth = *raw.MaxInlineDepth
	}
	if raw.MaxStackDepth != nil {
		c.MaxStackDepth = *raw.MaxStackDepth
	}
	return nil
}

// LoadFile reads a Config from a TOML or YAML file, sniffing the format
// from the file extension. Fields omitted from the file keep their
// Default value. The loaded config is validated before being returned.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	var raw rawConfig

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return nil, fmt.Errorf("config: decode toml %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("config: decode yaml %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unrecognized config file extension %q (want .toml, .yaml, or .yml)", ext)
	}

	if err := cfg.applyRaw(raw); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
