package model

import "fmt"

// Default conversion parameters for CHP units, applied when the
// per-instance fields are left zero.
const (
	DefaultCHPEfficiency       = 0.8
	DefaultCHPPowerToHeatRatio = 0.6
)

// Component is a conversion unit connecting buses. Implementations expose
// their declared topology so edges can be derived from it.
type Component interface {
	// UID returns the component's unique id.
	UID() string
	// InputBuses returns the ordered input bus list.
	InputBuses() []*Bus
	// OutputBuses returns the ordered output bus list.
	OutputBuses() []*Bus
	// Validate checks the component's configuration. It returns a
	// *ConfigError describing the first violation found.
	Validate() error
}

// ConfigError reports a component whose declared shape violates its
// contract (wrong input/output arity, efficiency out of range). It is
// always raised before any constraint generation.
type ConfigError struct {
	ComponentID string
	Reason      string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("component %q: %s", e.ComponentID, e.Reason)
}

// Transformer is a single-input, single-output component with a fixed
// linear conversion efficiency: output = input * Eta per timestep.
type Transformer struct {
	ID      string
	Inputs  []*Bus
	Outputs []*Bus
	// Eta is the conversion efficiency, in (0, 1].
	Eta float64
}

func (t *Transformer) UID() string         { return t.ID }
func (t *Transformer) InputBuses() []*Bus  { return t.Inputs }
func (t *Transformer) OutputBuses() []*Bus { return t.Outputs }

func (t *Transformer) Validate() error {
	if len(t.Inputs) != 1 {
		return &ConfigError{ComponentID: t.ID, Reason: fmt.Sprintf("transformer requires exactly one input bus, got %d", len(t.Inputs))}
	}
	if len(t.Outputs) != 1 {
		return &ConfigError{ComponentID: t.ID, Reason: fmt.Sprintf("transformer requires exactly one output bus, got %d", len(t.Outputs))}
	}
	if t.Eta <= 0 || t.Eta > 1 {
		return &ConfigError{ComponentID: t.ID, Reason: fmt.Sprintf("eta must be in (0, 1], got %g", t.Eta)}
	}
	return nil
}

// CHP is a combined-heat-power unit: single input, exactly two outputs in
// fixed order [power, heat]. The overall balance is
// input = (power + heat) / Efficiency, and power = heat * PowerToHeatRatio,
// per timestep.
type CHP struct {
	ID      string
	Inputs  []*Bus
	Outputs []*Bus // [0] power, [1] heat; the order is semantically significant
	// Efficiency is the overall conversion efficiency. Zero means
	// DefaultCHPEfficiency.
	Efficiency float64
	// PowerToHeatRatio fixes power output relative to heat output. Zero
	// means DefaultCHPPowerToHeatRatio.
	PowerToHeatRatio float64
}

// NewCHP builds a CHP with the default efficiency and power-to-heat ratio.
func NewCHP(id string, input *Bus, power *Bus, heat *Bus) *CHP {
	return &CHP{
		ID:               id,
		Inputs:           []*Bus{input},
		Outputs:          []*Bus{power, heat},
		Efficiency:       DefaultCHPEfficiency,
		PowerToHeatRatio: DefaultCHPPowerToHeatRatio,
	}
}

func (c *CHP) UID() string         { return c.ID }
func (c *CHP) InputBuses() []*Bus  { return c.Inputs }
func (c *CHP) OutputBuses() []*Bus { return c.Outputs }

// EffectiveEfficiency returns Efficiency with the default applied.
func (c *CHP) EffectiveEfficiency() float64 {
	if c.Efficiency == 0 {
		return DefaultCHPEfficiency
	}
	return c.Efficiency
}

// EffectivePowerToHeatRatio returns PowerToHeatRatio with the default applied.
func (c *CHP) EffectivePowerToHeatRatio() float64 {
	if c.PowerToHeatRatio == 0 {
		return DefaultCHPPowerToHeatRatio
	}
	return c.PowerToHeatRatio
}

func (c *CHP) Validate() error {
	if len(c.Inputs) != 1 {
		return &ConfigError{ComponentID: c.ID, Reason: fmt.Sprintf("chp requires exactly one input bus, got %d", len(c.Inputs))}
	}
	if len(c.Outputs) != 2 {
		return &ConfigError{ComponentID: c.ID, Reason: fmt.Sprintf("chp requires exactly two output buses [power, heat], got %d", len(c.Outputs))}
	}
	if c.Outputs[0].ID == c.Outputs[1].ID {
		return &ConfigError{ComponentID: c.ID, Reason: fmt.Sprintf("power and heat must leave on distinct buses, both are %q", c.Outputs[0].ID)}
	}
	if eff := c.EffectiveEfficiency(); eff <= 0 || eff > 1 {
		return &ConfigError{ComponentID: c.ID, Reason: fmt.Sprintf("efficiency must be in (0, 1], got %g", eff)}
	}
	if r := c.EffectivePowerToHeatRatio(); r <= 0 {
		return &ConfigError{ComponentID: c.ID, Reason: fmt.Sprintf("power-to-heat ratio must be > 0, got %g", r)}
	}
	return nil
}
