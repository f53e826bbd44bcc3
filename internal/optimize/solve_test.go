package optimize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"energyflow/internal/lp"
	"energyflow/internal/model"
	"energyflow/internal/solver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend returns a canned solution, or fails, without touching any
// external binary.
type stubBackend struct {
	name   string
	status solver.Status
	values func(p *lp.Problem) []float64
	err    error
}

func (s *stubBackend) Name() string    { return s.name }
func (s *stubBackend) Available() bool { return true }

func (s *stubBackend) Solve(_ context.Context, p *lp.Problem, _ solver.Options) (*solver.Solution, error) {
	if s.err != nil {
		return nil, s.err
	}
	sol := &solver.Solution{Status: s.status}
	if s.values != nil {
		sol.Values = s.values(p)
		sol.Objective = lp.Objective(p, sol.Values)
	}
	return sol, nil
}

func builtModel(t *testing.T) *Model {
	t.Helper()
	ents, edges := transformerNetwork(0.5)
	m, err := Build(ents, edges, []int{0, 1}, Options{})
	require.NoError(t, err)
	return m
}

func TestSolveOptimal(t *testing.T) {
	solver.Register(&stubBackend{
		name:   "stub-ok",
		status: solver.StatusOptimal,
		values: func(p *lp.Problem) []float64 {
			vals := make([]float64, p.NumCols())
			for i := range vals {
				vals[i] = 3
			}
			return vals
		},
	})

	m := builtModel(t)
	in, err := Solve(context.Background(), m, "stub-ok", SolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3.0, in.Flow("coal", "t0", 0))
	assert.Equal(t, 3.0, in.Flow("t0", "elec", 1))
	assert.Equal(t, 12.0, in.Objective())

	_, ok := in.ExtraCapacity(model.Edge{Src: "coal", Dst: "t0"})
	assert.False(t, ok, "no extra capacity outside investment mode")
}

func TestSolveUnknownBackend(t *testing.T) {
	m := builtModel(t)
	_, err := Solve(context.Background(), m, "no-such-solver", SolveOptions{})
	assert.ErrorIs(t, err, solver.ErrUnavailable)
}

func TestSolveStatusErrors(t *testing.T) {
	cases := []struct {
		status solver.Status
		want   error
	}{
		{solver.StatusInfeasible, solver.ErrInfeasible},
		{solver.StatusUnbounded, solver.ErrUnbounded},
		{solver.StatusTimeout, solver.ErrTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.status.String(), func(t *testing.T) {
			solver.Register(&stubBackend{name: "stub-status", status: tc.status})

			_, err := Solve(context.Background(), builtModel(t), "stub-status", SolveOptions{})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSolveBackendFailure(t *testing.T) {
	boom := errors.New("binary crashed")
	solver.Register(&stubBackend{name: "stub-err", err: boom})

	_, err := Solve(context.Background(), builtModel(t), "stub-err", SolveOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestSolveRejectsValuelessSuccess(t *testing.T) {
	solver.Register(&stubBackend{name: "stub-empty", status: solver.StatusOptimal})

	_, err := Solve(context.Background(), builtModel(t), "stub-empty", SolveOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no variable values")
}

func TestSolveDebugDump(t *testing.T) {
	solver.Register(&stubBackend{
		name:   "stub-dump",
		status: solver.StatusOptimal,
		values: func(p *lp.Problem) []float64 { return make([]float64, p.NumCols()) },
	})

	path := filepath.Join(t.TempDir(), "debug.lp")
	_, err := Solve(context.Background(), builtModel(t), "stub-dump", SolveOptions{Debug: true, DebugPath: path})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Minimize")
	assert.Contains(t, string(data), "Subject To")
}
