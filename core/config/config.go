// Package config reads clock network topologies from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultFrameRate   = 60.0
	DefaultMetricsAddr = "127.0.0.1:8080"
)

var ErrInvalidFrameRate = errors.New("invalid frame rate")

type Config struct {
	FrameRate   float64            `toml:"frame_rate,omitempty" yaml:"frame_rate,omitempty"`
	MetricsAddr string             `toml:"metrics_address,omitempty" yaml:"metrics_address,omitempty"`
	Clocks      []ClockConfig      `toml:"clocks,omitempty" yaml:"clocks,omitempty"`
	Multipliers []MultiplierConfig `toml:"multipliers,omitempty" yaml:"multipliers,omitempty"`
	Triggered   []TriggeredConfig  `toml:"triggered,omitempty" yaml:"triggered,omitempty"`
	Follow      []FollowConfig     `toml:"follow,omitempty" yaml:"follow,omitempty"`
}

// ClockConfig describes a clock. Rate is written like "2Hz" or "120 bpm";
// an empty Source means the timebase.
type ClockConfig struct {
	Name   string  `toml:"name" yaml:"name"`
	Rate   string  `toml:"rate" yaml:"rate"`
	Phase  float64 `toml:"phase,omitempty" yaml:"phase,omitempty"`
	Source string  `toml:"source,omitempty" yaml:"source,omitempty"`
}

type MultiplierConfig struct {
	Name   string  `toml:"name" yaml:"name"`
	Source string  `toml:"source" yaml:"source"`
	Mult   float64 `toml:"mult" yaml:"mult"`
}

type TriggeredConfig struct {
	Name   string `toml:"name" yaml:"name"`
	Rate   string `toml:"rate" yaml:"rate"`
	Source string `toml:"source,omitempty" yaml:"source,omitempty"`
}

// FollowConfig makes Follower reset and tick along with Master.
type FollowConfig struct {
	Follower string `toml:"follower" yaml:"follower"`
	Master   string `toml:"master" yaml:"master"`
}

func defaultConfig() Config {
	return Config{
		FrameRate:   DefaultFrameRate,
		MetricsAddr: DefaultMetricsAddr,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Load reads the file at path, as YAML if it ends in .yaml or .yml and as
// TOML otherwise. Unknown fields are rejected.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := defaultConfig()
	if isYAML(path) {
		err = yaml.UnmarshalWithOptions(raw, &cfg, yaml.DisallowUnknownField())
	} else {
		err = toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if cfg.FrameRate <= 0 {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidFrameRate, cfg.FrameRate)
	}
	return cfg, nil
}
