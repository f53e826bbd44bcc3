// Package analysis turns a solved instance into per-edge flow ledgers and
// conservation checks.
package analysis

import (
	"math"

	"energyflow/internal/optimize"
)

// FlowRow is one (edge, timestep) entry of the flow ledger.
type FlowRow struct {
	Index    int
	Src      string
	Dst      string
	Timestep int
	Flow     float64
	// Capacity is the edge's base capacity from the build options. In
	// investment mode ExtraCapacity is added on top where present.
	Capacity      float64
	ExtraCapacity float64
	// Utilization is flow over effective capacity, 0 when unbounded.
	Utilization float64
}

// BusBalance summarizes conservation at one bus: the largest absolute
// inflow-minus-outflow residual across all timesteps. For any feasible
// solution it stays within solver numerical tolerance.
type BusBalance struct {
	BusID       string
	MaxResidual float64
}

// Report is the post-solve summary of an instance.
type Report struct {
	Objective float64
	Flows     []FlowRow
	Balances  []BusBalance
}

// Epsilon guards utilization against zero and near-zero capacities.
const Epsilon = 1e-9

// Utilization computes flow over capacity, 0 for degenerate capacity.
func Utilization(flow, capacity float64) float64 {
	if capacity <= Epsilon {
		return 0
	}
	return flow / capacity
}

// Build assembles the flow ledger and per-bus balance residuals from a
// solved instance. Row order follows the declared edge order, timesteps
// innermost, so output is deterministic.
func Build(in *optimize.Instance) *Report {
	r := &Report{Objective: in.Objective()}

	idx := 0
	for _, e := range in.Model.Edges {
		cap := in.Model.Opts.Capacity(e)
		extra, invested := in.ExtraCapacity(e)
		for _, t := range in.Model.Timesteps {
			flow := in.Flow(e.Src, e.Dst, t)
			effective := cap
			if invested {
				effective += extra
			}
			r.Flows = append(r.Flows, FlowRow{
				Index:         idx,
				Src:           e.Src,
				Dst:           e.Dst,
				Timestep:      t,
				Flow:          flow,
				Capacity:      cap,
				ExtraCapacity: extra,
				Utilization:   Utilization(flow, effective),
			})
			idx++
		}
	}

	for _, b := range in.Model.Entities.Buses {
		worst := 0.0
		for _, t := range in.Model.Timesteps {
			net := 0.0
			for _, e := range in.Model.Edges {
				if e.Dst == b.ID {
					net += in.Flow(e.Src, e.Dst, t)
				}
				if e.Src == b.ID {
					net -= in.Flow(e.Src, e.Dst, t)
				}
			}
			if abs := math.Abs(net); abs > worst {
				worst = abs
			}
		}
		r.Balances = append(r.Balances, BusBalance{BusID: b.ID, MaxResidual: worst})
	}

	return r
}

// MaxResidual returns the worst bus balance residual in the report.
func (r *Report) MaxResidual() float64 {
	worst := 0.0
	for _, b := range r.Balances {
		if b.MaxResidual > worst {
			worst = b.MaxResidual
		}
	}
	return worst
}
