package lp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// WriteLPFile writes the problem in CPLEX LP format to path. The file is a
// debug artifact for external inspection; symbolic row and column labels
// are preserved.
func WriteLPFile(p *Problem, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteLP(p, w); err != nil {
		return err
	}
	return w.Flush()
}

// WriteLP writes the problem in CPLEX LP format.
//
// LP-format defaults apply: variables are >= 0 with no upper bound unless
// a Bounds entry says otherwise, so only finite upper bounds and nonzero
// lower bounds are emitted.
func WriteLP(p *Problem, w io.Writer) error {
	bw := bufio.NewWriter(w)

	name := p.Name
	if name == "" {
		name = "problem"
	}
	fmt.Fprintf(bw, "\\ Problem: %s\n", name)

	if p.Maximize {
		fmt.Fprintln(bw, "Maximize")
	} else {
		fmt.Fprintln(bw, "Minimize")
	}
	bw.WriteString(" obj:")
	wrote := false
	for _, c := range p.Cols {
		if c.Cost == 0 {
			continue
		}
		bw.WriteString(termString(c.Cost, sanitize(c.Name), !wrote))
		wrote = true
	}
	if !wrote && len(p.Cols) > 0 {
		// LP format requires a non-empty objective expression.
		bw.WriteString(" 0 " + sanitize(p.Cols[0].Name))
	}
	bw.WriteString("\n")

	fmt.Fprintln(bw, "Subject To")
	for _, r := range p.Rows {
		fmt.Fprintf(bw, " %s:", sanitize(r.Name))
		first := true
		for _, t := range r.Terms {
			bw.WriteString(termString(t.Coef, sanitize(p.Cols[t.Col].Name), first))
			first = false
		}
		switch {
		case r.IsEquality():
			fmt.Fprintf(bw, " = %s\n", fmtNum(r.Lower))
		case math.IsInf(r.Lower, -1):
			fmt.Fprintf(bw, " <= %s\n", fmtNum(r.Upper))
		case math.IsInf(r.Upper, 1):
			fmt.Fprintf(bw, " >= %s\n", fmtNum(r.Lower))
		default:
			// Ranged rows are split in two; neither backend needs them today.
			fmt.Fprintf(bw, " <= %s\n", fmtNum(r.Upper))
		}
	}

	fmt.Fprintln(bw, "Bounds")
	for _, c := range p.Cols {
		switch {
		case c.Lower == 0 && math.IsInf(c.Upper, 1):
			// LP-format default, nothing to emit.
		case math.IsInf(c.Upper, 1):
			fmt.Fprintf(bw, " %s >= %s\n", sanitize(c.Name), fmtNum(c.Lower))
		default:
			fmt.Fprintf(bw, " %s <= %s <= %s\n", fmtNum(c.Lower), sanitize(c.Name), fmtNum(c.Upper))
		}
	}

	fmt.Fprintln(bw, "End")
	return bw.Flush()
}

// termString renders one signed term, e.g. " + 0.5 w_b1_t0_0".
func termString(coef float64, name string, first bool) string {
	sign := " + "
	if coef < 0 {
		sign = " - "
		coef = -coef
	} else if first {
		sign = " "
	}
	if coef == 1 {
		return sign + name
	}
	return sign + fmtNum(coef) + " " + name
}

func fmtNum(x float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.10f", x), "0"), ".")
}

// SanitizeName maps an arbitrary label to the LP-format identifier
// charset. Edge labels like "b1->t0" become "b1__t0". Backends matching
// solver output by name must apply the same mapping.
func SanitizeName(name string) string {
	return sanitize(name)
}

// sanitize maps an arbitrary label to the LP-format identifier charset.
// Edge labels like "b1->t0" become "b1__t0".
func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '(', r == ')':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
