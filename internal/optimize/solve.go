package optimize

import (
	"context"
	"fmt"
	"time"

	"energyflow/internal/lp"
	"energyflow/internal/model"
	"energyflow/internal/solver"
)

// SolveOptions controls one solve call.
type SolveOptions struct {
	// Solver is passed through to the backend (stream, time limit).
	Solver solver.Options
	// Debug writes the fully assembled problem as a symbolic LP file
	// before solving. The file is a side effect for external
	// inspection, not part of the result.
	Debug bool
	// DebugPath is where the LP file goes. Empty means "problem.lp".
	DebugPath string
}

// Instance is a solved model: the immutable Model plus the values the
// backend reported for every declared variable.
type Instance struct {
	Model    *Model
	Solution *solver.Solution
}

// Solve materializes the model's problem, optionally dumps it, delegates
// to the named backend and loads the result back. A non-success solver
// status comes back as the matching error kind (solver.ErrInfeasible,
// solver.ErrUnbounded, solver.ErrTimeout), never as a solved instance
// with garbage values.
func Solve(ctx context.Context, m *Model, solverID string, opts SolveOptions) (*Instance, error) {
	backend, err := solver.Lookup(solverID)
	if err != nil {
		return nil, err
	}

	if opts.Debug {
		path := opts.DebugPath
		if path == "" {
			path = "problem.lp"
		}
		if err := lp.WriteLPFile(m.Problem, path); err != nil {
			return nil, fmt.Errorf("write debug LP file: %w", err)
		}
	}

	start := time.Now()
	sol, err := backend.Solve(ctx, m.Problem, opts.Solver)
	if err != nil {
		solvesTotal.WithLabelValues(solverID, "error").Inc()
		return nil, fmt.Errorf("solver %q: %w", solverID, err)
	}
	solveDuration.WithLabelValues(solverID).Observe(time.Since(start).Seconds())
	solvesTotal.WithLabelValues(solverID, sol.Status.String()).Inc()

	if serr := solver.StatusToError(sol.Status); serr != nil {
		return nil, fmt.Errorf("solver %q: %w", solverID, serr)
	}
	if !sol.HasValues() {
		return nil, fmt.Errorf("solver %q reported %s but returned no variable values", solverID, sol.Status)
	}
	return &Instance{Model: m, Solution: sol}, nil
}

// Flow returns the solved value of w[src,dst,t].
func (in *Instance) Flow(src, dst string, t int) float64 {
	col, ok := in.Model.FlowColumn(src, dst, t)
	if !ok {
		return 0
	}
	return in.Solution.Value(col)
}

// ExtraCapacity returns the solver-chosen extra capacity of an edge. The
// second result is false outside investment mode or for unknown edges.
func (in *Instance) ExtraCapacity(e model.Edge) (float64, bool) {
	col, ok := in.Model.ExtraColumn(e)
	if !ok {
		return 0, false
	}
	return in.Solution.Value(col), true
}

// Objective returns the solved objective value.
func (in *Instance) Objective() float64 { return in.Solution.Objective }
