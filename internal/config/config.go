// Package config defines the YAML run configuration: system setup, pair
// coefficients, and the neighbor-list options recognized by the subsystem.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mdsim/internal/md"
)

const (
	DefaultDt          = 0.005
	DefaultKT          = 0.2
	DefaultGamma       = 1.0
	DefaultRBuff       = 0.4
	DefaultCheckPeriod = 1
	DefaultSeed        = 42
)

type Config struct {
	// Index selects the spatial acceleration structure: cell, stencil or
	// tree.
	Index string `yaml:"index"`
	// CellWidth sets the stencil variant's grid resolution. Ignored by the
	// other variants.
	CellWidth float64 `yaml:"cell_width"`
	// ListMode is full or half.
	ListMode string `yaml:"list_mode"`

	RBuff       float64 `yaml:"r_buff"`
	CheckPeriod int     `yaml:"check_period"`

	// Integrator is langevin (thermostatted) or nve (velocity Verlet).
	Integrator string `yaml:"integrator"`

	Dt    float64 `yaml:"dt"`
	KT    float64 `yaml:"kt"`
	Gamma float64 `yaml:"gamma"`
	Seed  int64   `yaml:"seed"`

	Lattice    LatticeConfig   `yaml:"lattice"`
	Pairs      []PairConfig    `yaml:"pairs"`
	Exclusions ExclusionConfig `yaml:"exclusions"`
}

// LatticeConfig describes the simple cubic starting configuration.
type LatticeConfig struct {
	A float64 `yaml:"a"`
	N int     `yaml:"n"`
}

// PairConfig sets LJ coefficients and the cutoff for one type pair.
type PairConfig struct {
	TypeA   int     `yaml:"type_a"`
	TypeB   int     `yaml:"type_b"`
	RCut    float64 `yaml:"r_cut"`
	Epsilon float64 `yaml:"epsilon"`
	Sigma   float64 `yaml:"sigma"`
}

type ExclusionConfig struct {
	Pairs    [][2]int `yaml:"pairs"`
	SameBody bool     `yaml:"same_body"`
}

func DefaultConfig() *Config {
	return &Config{
		Index:       "cell",
		ListMode:    "full",
		Integrator:  "langevin",
		RBuff:       DefaultRBuff,
		CheckPeriod: DefaultCheckPeriod,
		Dt:          DefaultDt,
		KT:          DefaultKT,
		Gamma:       DefaultGamma,
		Seed:        DefaultSeed,
		Lattice:     LatticeConfig{A: 2.0, N: 5},
		Pairs:       []PairConfig{{RCut: 2.5, Epsilon: 1.0, Sigma: 1.0}},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// NumTypes returns one past the highest species tag referenced by the pair
// coefficients.
func (c *Config) NumTypes() int {
	n := 1
	for _, p := range c.Pairs {
		if p.TypeA+1 > n {
			n = p.TypeA + 1
		}
		if p.TypeB+1 > n {
			n = p.TypeB + 1
		}
	}
	return n
}

// Validate checks everything that does not need the particle data.
func (c *Config) Validate() error {
	switch c.Index {
	case "cell", "stencil", "tree":
	default:
		return fmt.Errorf("%w: unknown index %q", md.ErrConfiguration, c.Index)
	}
	if c.Index == "stencil" && c.CellWidth <= 0 {
		return fmt.Errorf("%w: stencil index requires a positive cell_width", md.ErrConfiguration)
	}
	switch c.ListMode {
	case "full", "half":
	default:
		return fmt.Errorf("%w: unknown list_mode %q", md.ErrConfiguration, c.ListMode)
	}
	switch c.Integrator {
	case "langevin", "nve":
	default:
		return fmt.Errorf("%w: unknown integrator %q", md.ErrConfiguration, c.Integrator)
	}
	if c.RBuff < 0 {
		return fmt.Errorf("%w: r_buff must be non-negative", md.ErrConfiguration)
	}
	if c.CheckPeriod < 1 {
		return fmt.Errorf("%w: check_period must be at least 1", md.ErrConfiguration)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive", md.ErrConfiguration)
	}
	if len(c.Pairs) == 0 {
		return fmt.Errorf("%w: at least one pair coefficient is required", md.ErrConfiguration)
	}
	for _, p := range c.Pairs {
		if p.RCut <= 0 {
			return fmt.Errorf("%w: r_cut must be positive for pair (%d,%d)", md.ErrConfiguration, p.TypeA, p.TypeB)
		}
	}
	if c.Lattice.A <= 0 || c.Lattice.N < 1 {
		return fmt.Errorf("%w: lattice needs positive spacing and cell count", md.ErrConfiguration)
	}
	return nil
}
