// Package config defines the explicit configuration object for the risk
// engine tooling: the position catalogue, engine parameters, and the sweep
// grid. It replaces run-mode globals and hard-coded dataset selection with
// a single YAML document.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Voltz-Protocol/voltz-risk-engine/internal/domain/risk"
)

// Config is the top-level configuration document.
type Config struct {
	Positions []PositionConfig `yaml:"positions"`
	Engine    EngineConfig     `yaml:"engine"`
	Sweep     SweepConfig      `yaml:"sweep"`
	OutputDir string           `yaml:"output_dir"`
}

// PositionConfig binds one named position to its data file and column layout.
type PositionConfig struct {
	Name              string  `yaml:"name"`
	DataFile          string  `yaml:"data_file"`
	Notional          float64 `yaml:"notional"`
	PoolSize          int     `yaml:"pool_size"` // 0 keeps the full window
	LiquidationColumn string  `yaml:"liquidation_column"`
	MarginColumn      string  `yaml:"margin_column"`
	PnLColumn         string  `yaml:"pnl_column"`
}

// EngineConfig carries the statistical parameters of the engine.
type EngineConfig struct {
	Replicates    int   `yaml:"replicates"`
	BootstrapSeed int64 `yaml:"bootstrap_seed"`
	JitterSeed    int64 `yaml:"jitter_seed"` // 0 means time-seeded
	Confidence    int   `yaml:"confidence"`
}

// SweepConfig defines the scenario grid driven over each position.
type SweepConfig struct {
	Confidences   []int     `yaml:"confidences"`
	PoolSizes     []int     `yaml:"pool_sizes"`     // empty sweeps only the position's own pool size
	StressFactors []float64 `yaml:"stress_factors"` // multiplicative shocks to pnl and liquidation distance
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.Replicates == 0 {
		c.Engine.Replicates = risk.DefaultReplicates
	}
	if c.Engine.BootstrapSeed == 0 {
		c.Engine.BootstrapSeed = risk.DefaultBootstrapSeed
	}
	if c.Engine.Confidence == 0 {
		c.Engine.Confidence = int(risk.Confidence95)
	}
	if len(c.Sweep.Confidences) == 0 {
		c.Sweep.Confidences = []int{int(risk.Confidence95), int(risk.Confidence99)}
	}
	if len(c.Sweep.StressFactors) == 0 {
		c.Sweep.StressFactors = []float64{1.0}
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
}

// Validate rejects configurations the engine would fail on later, with
// position-level context in every message.
func (c *Config) Validate() error {
	if len(c.Positions) == 0 {
		return fmt.Errorf("config: no positions defined")
	}
	seen := map[string]bool{}
	for i, p := range c.Positions {
		if p.Name == "" {
			return fmt.Errorf("config: position %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("config: duplicate position name %q", p.Name)
		}
		seen[p.Name] = true
		if p.DataFile == "" {
			return fmt.Errorf("config: position %q has no data file", p.Name)
		}
		if p.Notional <= 0 {
			return fmt.Errorf("config: position %q notional must be positive, got %v", p.Name, p.Notional)
		}
		if p.PoolSize < 0 {
			return fmt.Errorf("config: position %q pool size must not be negative", p.Name)
		}
		if p.LiquidationColumn == "" || p.MarginColumn == "" || p.PnLColumn == "" {
			return fmt.Errorf("config: position %q must bind all three series columns", p.Name)
		}
	}
	if c.Engine.Replicates < 1 {
		return fmt.Errorf("config: engine replicates must be >= 1, got %d", c.Engine.Replicates)
	}
	if _, err := risk.Confidence(c.Engine.Confidence).ZScore(); err != nil {
		return fmt.Errorf("config: engine confidence: %w", err)
	}
	for _, a := range c.Sweep.Confidences {
		if _, err := risk.Confidence(a).ZScore(); err != nil {
			return fmt.Errorf("config: sweep confidence: %w", err)
		}
	}
	for _, f := range c.Sweep.StressFactors {
		if f <= 0 {
			return fmt.Errorf("config: stress factors must be positive, got %v", f)
		}
	}
	for _, n := range c.Sweep.PoolSizes {
		if n < 1 {
			return fmt.Errorf("config: sweep pool sizes must be >= 1, got %d", n)
		}
	}
	return nil
}

// Position looks up a position by name.
func (c *Config) Position(name string) (PositionConfig, error) {
	for _, p := range c.Positions {
		if p.Name == name {
			return p, nil
		}
	}
	return PositionConfig{}, fmt.Errorf("config: unknown position %q", name)
}
