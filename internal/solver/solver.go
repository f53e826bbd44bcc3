// Package solver abstracts external LP/MIP engines behind a small
// capability interface: hand over a problem, get back per-variable values
// and a status. Backends shell out to the named solver binary; the model
// builder never depends on a concrete engine.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"energyflow/internal/lp"
)

// Failure kinds surfaced to callers. Solver statuses are never masked as
// success; infeasible and unbounded models come back as errors carrying
// the partial Solution where one exists.
var (
	// ErrUnavailable means the requested backend is unknown, or its
	// binary is not installed or not licensed.
	ErrUnavailable = errors.New("solver unavailable")
	// ErrInfeasible means the solver proved the model has no feasible point.
	ErrInfeasible = errors.New("model infeasible")
	// ErrUnbounded means the solver proved the objective is unbounded.
	ErrUnbounded = errors.New("model unbounded")
	// ErrTimeout means the solve exceeded its time limit.
	ErrTimeout = errors.New("solver timed out")
)

// Options controls a single solve call.
type Options struct {
	// Stream mirrors the solver's own log output to stdout.
	Stream bool
	// TimeLimit bounds the external solver run. Zero means no limit.
	TimeLimit time.Duration
}

// Backend is a pluggable LP/MIP engine.
type Backend interface {
	// Name returns the registry id, e.g. "glpk".
	Name() string
	// Available reports whether the backend can actually run on this
	// host (binary present, licensed).
	Available() bool
	// Solve hands the problem to the engine and returns the solution.
	// Solve blocks for the whole external run; cancel via ctx.
	Solve(ctx context.Context, p *lp.Problem, opts Options) (*Solution, error)
}

var (
	regMu    sync.RWMutex
	backends = make(map[string]Backend)
)

// Register makes a backend available under its name. Later registrations
// with the same name replace earlier ones, which lets tests install stubs.
func Register(b Backend) {
	regMu.Lock()
	defer regMu.Unlock()
	backends[b.Name()] = b
}

// Lookup returns the named backend or ErrUnavailable.
func Lookup(name string) (Backend, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("no backend %q: %w", name, ErrUnavailable)
	}
	return b, nil
}

// Names returns the registered backend names, sorted.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(backends))
	for name := range backends {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// StatusToError maps a terminal solution status to the corresponding error
// kind, or nil when the status stands for success.
func StatusToError(s Status) error {
	switch s {
	case StatusOptimal, StatusFeasible:
		return nil
	case StatusInfeasible:
		return ErrInfeasible
	case StatusUnbounded:
		return ErrUnbounded
	case StatusTimeout:
		return ErrTimeout
	default:
		return fmt.Errorf("solver finished with status %s", s)
	}
}
