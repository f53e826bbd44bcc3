// Package lp holds a solver-agnostic linear program: named columns with
// bounds and objective costs, named rows with sparse coefficients. Backends
// consume it as-is; the model builder never talks to a solver directly.
package lp

import "math"

// Term is one nonzero coefficient of a row.
type Term struct {
	Col  int
	Coef float64
}

// Column is one decision variable.
type Column struct {
	Name  string
	Lower float64
	Upper float64
	// Cost is the objective coefficient.
	Cost float64
}

// Row is one linear constraint: Lower <= sum(Coef * x[Col]) <= Upper.
// Equality rows have Lower == Upper.
type Row struct {
	Name  string
	Lower float64
	Upper float64
	Terms []Term
}

// IsEquality reports whether the row is an equality constraint.
func (r Row) IsEquality() bool { return r.Lower == r.Upper }

// Problem is a full linear program. Columns default to [0, +inf) bounds
// when added through AddColumn with Inf upper.
type Problem struct {
	Name string
	// Maximize flips the optimization sense; the default is minimize.
	Maximize bool
	Cols     []Column
	Rows     []Row
}

// Inf returns positive infinity, for unbounded-above columns and rows.
func Inf() float64 { return math.Inf(1) }

// NegInf returns negative infinity, for unbounded-below rows.
func NegInf() float64 { return math.Inf(-1) }

// AddColumn declares a variable and returns its column index.
func (p *Problem) AddColumn(name string, lower, upper, cost float64) int {
	p.Cols = append(p.Cols, Column{Name: name, Lower: lower, Upper: upper, Cost: cost})
	return len(p.Cols) - 1
}

// AddEqRow adds an equality constraint: sum(terms) = rhs.
func (p *Problem) AddEqRow(name string, terms []Term, rhs float64) {
	p.Rows = append(p.Rows, Row{Name: name, Lower: rhs, Upper: rhs, Terms: terms})
}

// AddLeRow adds a less-than-or-equal constraint: sum(terms) <= rhs.
func (p *Problem) AddLeRow(name string, terms []Term, rhs float64) {
	p.Rows = append(p.Rows, Row{Name: name, Lower: NegInf(), Upper: rhs, Terms: terms})
}

// AddGeRow adds a greater-than-or-equal constraint: sum(terms) >= rhs.
func (p *Problem) AddGeRow(name string, terms []Term, rhs float64) {
	p.Rows = append(p.Rows, Row{Name: name, Lower: rhs, Upper: Inf(), Terms: terms})
}

// NumCols returns the number of declared variables.
func (p *Problem) NumCols() int { return len(p.Cols) }

// NumRows returns the number of declared constraints.
func (p *Problem) NumRows() int { return len(p.Rows) }

// ColIndex returns the index of the named column, or -1.
func (p *Problem) ColIndex(name string) int {
	for i, c := range p.Cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}
