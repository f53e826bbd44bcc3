package solver

// Status is the solver's verdict on a model.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	// StatusFeasible means the solver stopped with a feasible but not
	// proven-optimal point (e.g. a MIP stopped at a gap).
	StatusFeasible
	StatusInfeasible
	StatusUnbounded
	StatusTimeout
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Solution carries what a backend read back from the engine: the status,
// the objective value, and one value per problem column.
type Solution struct {
	Status    Status
	Objective float64
	// Values is indexed by problem column. Empty when the solver
	// produced no point (infeasible, unbounded, error).
	Values []float64
}

// IsOptimal reports whether the solver proved optimality.
func (s *Solution) IsOptimal() bool { return s.Status == StatusOptimal }

// IsInfeasible reports whether the solver proved infeasibility.
func (s *Solution) IsInfeasible() bool { return s.Status == StatusInfeasible }

// IsUnbounded reports whether the solver proved unboundedness.
func (s *Solution) IsUnbounded() bool { return s.Status == StatusUnbounded }

// HasValues reports whether the solution carries a usable point.
func (s *Solution) HasValues() bool { return len(s.Values) > 0 }

// Value returns the solved value of a column, or 0 when out of range.
func (s *Solution) Value(col int) float64 {
	if col < 0 || col >= len(s.Values) {
		return 0
	}
	return s.Values[col]
}
