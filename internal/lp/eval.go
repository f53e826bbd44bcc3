package lp

import "math"

// EvalRow computes the row activity sum(Coef * point[Col]) at a point.
func EvalRow(r Row, point []float64) float64 {
	v := 0.0
	for _, t := range r.Terms {
		v += t.Coef * point[t.Col]
	}
	return v
}

// Violation is one constraint or bound the point does not satisfy.
type Violation struct {
	Name   string
	Amount float64
}

// CheckPoint evaluates every row and column bound at a point and returns
// the violations exceeding tol. An empty result means the point is
// feasible within tolerance.
func CheckPoint(p *Problem, point []float64, tol float64) []Violation {
	var out []Violation
	for i, c := range p.Cols {
		x := point[i]
		if d := c.Lower - x; d > tol {
			out = append(out, Violation{Name: c.Name, Amount: d})
		}
		if d := x - c.Upper; !math.IsInf(c.Upper, 1) && d > tol {
			out = append(out, Violation{Name: c.Name, Amount: d})
		}
	}
	for _, r := range p.Rows {
		v := EvalRow(r, point)
		if d := r.Lower - v; !math.IsInf(r.Lower, -1) && d > tol {
			out = append(out, Violation{Name: r.Name, Amount: d})
		}
		if d := v - r.Upper; !math.IsInf(r.Upper, 1) && d > tol {
			out = append(out, Violation{Name: r.Name, Amount: d})
		}
	}
	return out
}

// Feasible reports whether the point satisfies all rows and bounds within
// tolerance.
func Feasible(p *Problem, point []float64, tol float64) bool {
	return len(CheckPoint(p, point, tol)) == 0
}

// Objective evaluates the objective at a point.
func Objective(p *Problem, point []float64) float64 {
	v := 0.0
	for i, c := range p.Cols {
		v += c.Cost * point[i]
	}
	return v
}
