package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/possession/internal/adapters/chart"
)

// Environment variable naming.
const (
	envPrefix     = "POSSESSION_"
	envConfigFile = "POSSESSION_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if POSSESSION_CONFIG is set
//  3. env (prefix POSSESSION_)
func Load(_ context.Context) (*Config, error) {
	return LoadFile(os.Getenv(envConfigFile))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file
// layer. Environment variables still take precedence.
func LoadFile(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// POSSESSION_FRAMES_PER_SECOND -> frames_per_second (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.FramesPerSecond < 1:
		return fmt.Errorf("%w: frames_per_second must be positive, got %d", ErrInvalidConfig, c.FramesPerSecond)
	case c.SkipLeadingFrames < 0:
		return fmt.Errorf("%w: skip_leading_frames must not be negative", ErrInvalidConfig)
	case c.ObjectName == "" || c.HolderName == "":
		return fmt.Errorf("%w: object_name and holder_name are required", ErrInvalidConfig)
	case c.ObjectName == c.HolderName:
		return fmt.Errorf("%w: object_name and holder_name must differ", ErrInvalidConfig)
	case c.PartyAID == c.PartyBID:
		return fmt.Errorf("%w: party ids must differ, both are %q", ErrInvalidConfig, c.PartyAID)
	case c.ChartWidth < chart.MinWidth || c.ChartHeight < chart.MinHeight:
		return fmt.Errorf("%w: chart must be at least %dx%d, got %dx%d",
			ErrInvalidConfig, chart.MinWidth, chart.MinHeight, c.ChartWidth, c.ChartHeight)
	case c.ChartTickSeconds < 1:
		return fmt.Errorf("%w: chart_tick_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}
