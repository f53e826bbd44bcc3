package models

import "energyflow/internal/config"

// SolveRequest is the request body for running a solve. The network comes
// either inline or from a scenario file on the server; inline wins when
// both are present.
type SolveRequest struct {
	ScenarioFile string       `json:"scenario_file,omitempty"`
	Network      *NetworkSpec `json:"network,omitempty"`

	Timesteps       int            `json:"timesteps,omitempty"`
	Invest          bool           `json:"invest,omitempty"`
	DefaultCapacity float64        `json:"default_capacity,omitempty"`
	Capacities      []CapacitySpec `json:"capacities,omitempty"`

	// Solver selects the backend; empty means the scenario's default
	// or "glpk".
	Solver  string       `json:"solver,omitempty"`
	Options SolveOptions `json:"options,omitempty"`
}

// NetworkSpec declares buses and conversion components inline.
type NetworkSpec struct {
	Buses        []BusSpec         `json:"buses" binding:"required"`
	Transformers []TransformerSpec `json:"transformers,omitempty"`
	CHPs         []CHPSpec         `json:"chps,omitempty"`
}

type BusSpec struct {
	ID   string `json:"id" binding:"required"`
	Kind string `json:"kind,omitempty"`
}

type TransformerSpec struct {
	ID     string  `json:"id" binding:"required"`
	Input  string  `json:"input" binding:"required"`
	Output string  `json:"output" binding:"required"`
	Eta    float64 `json:"eta" binding:"required"`
}

type CHPSpec struct {
	ID               string  `json:"id" binding:"required"`
	Input            string  `json:"input" binding:"required"`
	Power            string  `json:"power" binding:"required"`
	Heat             string  `json:"heat" binding:"required"`
	Efficiency       float64 `json:"efficiency,omitempty"`
	PowerToHeatRatio float64 `json:"power_to_heat_ratio,omitempty"`
}

type CapacitySpec struct {
	Src   string  `json:"src" binding:"required"`
	Dst   string  `json:"dst" binding:"required"`
	Value float64 `json:"value"`
}

// SolveOptions carries solve-time knobs.
type SolveOptions struct {
	// Stream mirrors solver log output to the server's stdout.
	Stream bool `json:"stream,omitempty"`
	// TimeLimitSeconds bounds the external solver run.
	TimeLimitSeconds float64 `json:"time_limit_seconds,omitempty"`
	// IncludeFlows returns the full per-(edge,timestep) ledger.
	IncludeFlows bool `json:"include_flows,omitempty"`
	// DebugFile dumps the assembled problem as a symbolic LP file to
	// this server-side path before solving.
	DebugFile string `json:"debug_file,omitempty"`
}

// ToConfig converts an inline request into the scenario shape shared with
// the YAML loader, so validation and entity materialization follow one
// path.
func (r *SolveRequest) ToConfig() *config.Config {
	c := &config.Config{
		Timesteps:       r.Timesteps,
		Invest:          r.Invest,
		DefaultCapacity: r.DefaultCapacity,
		Solver:          r.Solver,
	}
	if r.Network != nil {
		for _, b := range r.Network.Buses {
			c.Network.Buses = append(c.Network.Buses, config.BusConfig{ID: b.ID, Kind: b.Kind})
		}
		for _, t := range r.Network.Transformers {
			c.Network.Transformers = append(c.Network.Transformers, config.TransformerConfig{
				ID: t.ID, Input: t.Input, Output: t.Output, Eta: t.Eta,
			})
		}
		for _, h := range r.Network.CHPs {
			c.Network.CHPs = append(c.Network.CHPs, config.CHPConfig{
				ID: h.ID, Input: h.Input, Power: h.Power, Heat: h.Heat,
				Efficiency: h.Efficiency, PowerToHeatRatio: h.PowerToHeatRatio,
			})
		}
	}
	for _, cap := range r.Capacities {
		c.Capacities = append(c.Capacities, config.CapacityConfig{Src: cap.Src, Dst: cap.Dst, Value: cap.Value})
	}
	return c
}
