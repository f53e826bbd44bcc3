// Package optimize assembles the energy-network linear program: one flow
// variable per (edge, timestep), bus conservation rows, conversion rows
// for transformers and CHP units, and a throughput objective. Solving is
// delegated to a registered external backend.
package optimize

import (
	"fmt"

	"energyflow/internal/lp"
	"energyflow/internal/model"
)

// DefaultCapacity bounds every flow variable unless overridden per edge.
const DefaultCapacity = 100

// Options parameterizes a single model build.
type Options struct {
	// Invest switches the model into investment mode: flow variables
	// lose their upper bound and every edge gets an extra-capacity
	// variable the solver may raise.
	Invest bool
	// DefaultCapacity replaces the package default when nonzero.
	DefaultCapacity float64
	// Capacities overrides the default capacity per edge.
	Capacities map[model.Edge]float64
}

// Capacity returns the flow capacity of an edge under these options.
func (o Options) Capacity(e model.Edge) float64 {
	if c, ok := o.Capacities[e]; ok {
		return c
	}
	if o.DefaultCapacity > 0 {
		return o.DefaultCapacity
	}
	return DefaultCapacity
}

// ConstructionError reports an edge that cannot be wired into the model
// because it references an undeclared bus or component.
type ConstructionError struct {
	Edge   model.Edge
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("edge %s: %s", e.Edge, e.Reason)
}

type flowKey struct {
	src, dst string
	t        int
}

// Model is one assembled, immutable optimization problem. Solver output
// is loaded into a separate Instance, never back into the Model.
type Model struct {
	Problem   *lp.Problem
	Entities  *model.Entities
	Edges     []model.Edge
	Timesteps []int
	Opts      Options

	flowCols  map[flowKey]int
	extraCols map[model.Edge]int
}

// Build assembles the model for one (entities, edges, timesteps, options)
// tuple. Configuration and construction violations fail fast: no
// constraint is generated once a broken component or dangling edge is
// found.
func Build(entities *model.Entities, edges []model.Edge, timesteps []int, opts Options) (*Model, error) {
	m, err := build(entities, edges, timesteps, opts)
	if err != nil {
		buildsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	buildsTotal.WithLabelValues("ok").Inc()
	return m, nil
}

func build(entities *model.Entities, edges []model.Edge, timesteps []int, opts Options) (*Model, error) {
	if err := entities.Validate(); err != nil {
		return nil, err
	}
	if len(timesteps) == 0 {
		return nil, fmt.Errorf("no timesteps")
	}

	declared, err := checkEdges(entities, edges)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Problem:   &lp.Problem{Name: "energyflow"},
		Entities:  entities,
		Edges:     declared,
		Timesteps: timesteps,
		Opts:      opts,
		flowCols:  make(map[flowKey]int, len(declared)*len(timesteps)),
		extraCols: make(map[model.Edge]int),
	}

	m.addFlowVariables()
	m.addBusBalance()
	m.addTransformerConstraints()
	m.addCHPConstraints()
	m.addObjective()
	return m, nil
}

// checkEdges verifies that every edge endpoint names a declared entity and
// that every edge a component's constraints will reference is present in
// the declared edge set. Duplicate edges collapse to their first
// occurrence; a flow variable exists once per directed pair.
func checkEdges(entities *model.Entities, edges []model.Edge) ([]model.Edge, error) {
	seen := make(map[model.Edge]bool, len(edges))
	declared := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if !entities.HasID(e.Src) {
			return nil, &ConstructionError{Edge: e, Reason: fmt.Sprintf("source %q is not a declared bus or component", e.Src)}
		}
		if !entities.HasID(e.Dst) {
			return nil, &ConstructionError{Edge: e, Reason: fmt.Sprintf("destination %q is not a declared bus or component", e.Dst)}
		}
		if !seen[e] {
			seen[e] = true
			declared = append(declared, e)
		}
	}
	for _, c := range entities.Components() {
		for _, in := range c.InputBuses() {
			e := model.Edge{Src: in.ID, Dst: c.UID()}
			if !seen[e] {
				return nil, &ConstructionError{Edge: e, Reason: fmt.Sprintf("component %q input edge missing from declared edge set", c.UID())}
			}
		}
		for _, out := range c.OutputBuses() {
			e := model.Edge{Src: c.UID(), Dst: out.ID}
			if !seen[e] {
				return nil, &ConstructionError{Edge: e, Reason: fmt.Sprintf("component %q output edge missing from declared edge set", c.UID())}
			}
		}
	}
	return declared, nil
}

// addFlowVariables declares w[e,t] for every edge and timestep. Normal
// mode bounds each variable by the edge capacity; investment mode leaves
// flows unbounded above and declares w_add[e] >= 0 per edge instead. The
// effective bound then comes from the transformer investment rows only.
func (m *Model) addFlowVariables() {
	for _, e := range m.Edges {
		for _, t := range m.Timesteps {
			name := flowName(e, t)
			upper := m.Opts.Capacity(e)
			if m.Opts.Invest {
				upper = lp.Inf()
			}
			col := m.Problem.AddColumn(name, 0, upper, 0)
			m.flowCols[flowKey{e.Src, e.Dst, t}] = col
		}
	}
	if m.Opts.Invest {
		for _, e := range m.Edges {
			name := fmt.Sprintf("w_add(%s,%s)", e.Src, e.Dst)
			m.extraCols[e] = m.Problem.AddColumn(name, 0, lp.Inf(), 0)
		}
	}
}

// FlowColumn returns the problem column of w[src,dst,t].
func (m *Model) FlowColumn(src, dst string, t int) (int, bool) {
	col, ok := m.flowCols[flowKey{src, dst, t}]
	return col, ok
}

// ExtraColumn returns the problem column of w_add[edge] in invest mode.
func (m *Model) ExtraColumn(e model.Edge) (int, bool) {
	col, ok := m.extraCols[e]
	return col, ok
}

func flowName(e model.Edge, t int) string {
	return fmt.Sprintf("w(%s,%s,%d)", e.Src, e.Dst, t)
}
