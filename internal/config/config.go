// Package config loads network scenarios from YAML and materializes the
// entity sets the model builder consumes.
package config

import (
	"fmt"
	"os"

	"energyflow/internal/model"
	"energyflow/internal/optimize"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the on-disk scenario shape (YAML).
type Config struct {
	Network NetworkConfig `yaml:"network" validate:"required"`

	// Timesteps is the number of discrete time indices, 0..n-1.
	Timesteps int `yaml:"timesteps" validate:"gt=0"`

	// Invest switches the model into investment mode.
	Invest bool `yaml:"invest"`

	// DefaultCapacity overrides the built-in default flow capacity.
	DefaultCapacity float64 `yaml:"default_capacity" validate:"gte=0"`

	// Capacities overrides the capacity of individual edges.
	Capacities []CapacityConfig `yaml:"capacities" validate:"dive"`

	// Solver is the default backend id, e.g. "glpk" or "cbc".
	Solver string `yaml:"solver"`
}

// NetworkConfig declares the buses and conversion components.
type NetworkConfig struct {
	Buses        []BusConfig         `yaml:"buses" validate:"required,min=1,dive"`
	Transformers []TransformerConfig `yaml:"transformers" validate:"dive"`
	CHPs         []CHPConfig         `yaml:"chps" validate:"dive"`
}

type BusConfig struct {
	ID   string `yaml:"id" validate:"required"`
	Kind string `yaml:"kind"`
}

type TransformerConfig struct {
	ID     string  `yaml:"id" validate:"required"`
	Input  string  `yaml:"input" validate:"required"`
	Output string  `yaml:"output" validate:"required"`
	Eta    float64 `yaml:"eta" validate:"gt=0,lte=1"`
}

type CHPConfig struct {
	ID    string `yaml:"id" validate:"required"`
	Input string `yaml:"input" validate:"required"`
	Power string `yaml:"power" validate:"required"`
	Heat  string `yaml:"heat" validate:"required"`
	// Efficiency and PowerToHeatRatio fall back to the model defaults
	// (0.8 and 0.6) when omitted.
	Efficiency       float64 `yaml:"efficiency" validate:"omitempty,gt=0,lte=1"`
	PowerToHeatRatio float64 `yaml:"power_to_heat_ratio" validate:"omitempty,gt=0"`
}

type CapacityConfig struct {
	Src   string  `yaml:"src" validate:"required"`
	Dst   string  `yaml:"dst" validate:"required"`
	Value float64 `yaml:"value" validate:"gte=0"`
}

// Load reads, defaults, and validates a scenario file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Solver == "" {
		c.Solver = "glpk"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads a scenario without validating it. Useful for
// inspecting partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes a YAML scenario document.
func Parse(raw []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &c, nil
}

// Validate checks structural tags and bus references. The materialized
// entities run their own configuration checks again at build time; this
// catches scenario-level mistakes with file-oriented messages first.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	buses := make(map[string]bool, len(c.Network.Buses))
	for _, b := range c.Network.Buses {
		if buses[b.ID] {
			return fmt.Errorf("scenario: duplicate bus id %q", b.ID)
		}
		buses[b.ID] = true
	}
	for _, t := range c.Network.Transformers {
		for _, ref := range []string{t.Input, t.Output} {
			if !buses[ref] {
				return fmt.Errorf("scenario: transformer %q references unknown bus %q", t.ID, ref)
			}
		}
	}
	for _, h := range c.Network.CHPs {
		for _, ref := range []string{h.Input, h.Power, h.Heat} {
			if !buses[ref] {
				return fmt.Errorf("scenario: chp %q references unknown bus %q", h.ID, ref)
			}
		}
	}
	return nil
}

// Entities materializes the declared network with bus references
// resolved to shared *model.Bus values.
func (c *Config) Entities() (*model.Entities, error) {
	busByID := make(map[string]*model.Bus, len(c.Network.Buses))
	ents := &model.Entities{}
	for _, b := range c.Network.Buses {
		bus := &model.Bus{ID: b.ID, Kind: b.Kind}
		busByID[b.ID] = bus
		ents.Buses = append(ents.Buses, bus)
	}
	resolve := func(owner, id string) (*model.Bus, error) {
		bus, ok := busByID[id]
		if !ok {
			return nil, fmt.Errorf("scenario: %q references unknown bus %q", owner, id)
		}
		return bus, nil
	}
	for _, t := range c.Network.Transformers {
		in, err := resolve(t.ID, t.Input)
		if err != nil {
			return nil, err
		}
		out, err := resolve(t.ID, t.Output)
		if err != nil {
			return nil, err
		}
		ents.Transformers = append(ents.Transformers, &model.Transformer{
			ID:      t.ID,
			Inputs:  []*model.Bus{in},
			Outputs: []*model.Bus{out},
			Eta:     t.Eta,
		})
	}
	for _, h := range c.Network.CHPs {
		in, err := resolve(h.ID, h.Input)
		if err != nil {
			return nil, err
		}
		power, err := resolve(h.ID, h.Power)
		if err != nil {
			return nil, err
		}
		heat, err := resolve(h.ID, h.Heat)
		if err != nil {
			return nil, err
		}
		chp := model.NewCHP(h.ID, in, power, heat)
		if h.Efficiency != 0 {
			chp.Efficiency = h.Efficiency
		}
		if h.PowerToHeatRatio != 0 {
			chp.PowerToHeatRatio = h.PowerToHeatRatio
		}
		ents.CHPs = append(ents.CHPs, chp)
	}
	return ents, nil
}

// BuildOptions converts the scenario into model build options.
func (c *Config) BuildOptions() optimize.Options {
	opts := optimize.Options{
		Invest:          c.Invest,
		DefaultCapacity: c.DefaultCapacity,
	}
	if len(c.Capacities) > 0 {
		opts.Capacities = make(map[model.Edge]float64, len(c.Capacities))
		for _, cap := range c.Capacities {
			opts.Capacities[model.Edge{Src: cap.Src, Dst: cap.Dst}] = cap.Value
		}
	}
	return opts
}

// TimestepIndices returns the explicit timestep slice 0..Timesteps-1.
func (c *Config) TimestepIndices() []int {
	out := make([]int, c.Timesteps)
	for i := range out {
		out[i] = i
	}
	return out
}
