package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"energyflow/internal/lp"
)

func init() {
	Register(&glpkBackend{bin: "glpsol"})
}

// glpkBackend runs the GLPK standalone solver. The problem goes out as a
// CPLEX-LP file and the solution comes back from glpsol's printable
// output file, which carries symbolic names for every row and column.
type glpkBackend struct {
	bin string
}

func (g *glpkBackend) Name() string { return "glpk" }

func (g *glpkBackend) Available() bool {
	_, err := exec.LookPath(g.bin)
	return err == nil
}

func (g *glpkBackend) Solve(ctx context.Context, p *lp.Problem, opts Options) (*Solution, error) {
	bin, err := exec.LookPath(g.bin)
	if err != nil {
		return nil, fmt.Errorf("glpsol not found: %w", ErrUnavailable)
	}

	dir, err := os.MkdirTemp("", "energyflow-glpk-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	lpPath := filepath.Join(dir, "problem.lp")
	outPath := filepath.Join(dir, "solution.out")
	if err := lp.WriteLPFile(p, lpPath); err != nil {
		return nil, err
	}

	args := []string{"--lp", lpPath, "--output", outPath}
	if opts.TimeLimit > 0 {
		args = append(args, "--tmlim", strconv.Itoa(int(opts.TimeLimit.Seconds())))
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var logBuf bytes.Buffer
	if opts.Stream {
		cmd.Stdout = io.MultiWriter(os.Stdout, &logBuf)
	} else {
		cmd.Stdout = &logBuf
	}
	cmd.Stderr = cmd.Stdout

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("glpsol: %w", ErrTimeout)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log := logBuf.String()
	// glpsol decides some verdicts before writing any solution file.
	switch {
	case strings.Contains(log, "NO PRIMAL FEASIBLE SOLUTION") || strings.Contains(log, "NO FEASIBLE SOLUTION"):
		return &Solution{Status: StatusInfeasible}, nil
	case strings.Contains(log, "UNBOUNDED SOLUTION"):
		return &Solution{Status: StatusUnbounded}, nil
	case strings.Contains(log, "TIME LIMIT EXCEEDED"):
		return &Solution{Status: StatusTimeout}, nil
	}
	if runErr != nil {
		return nil, fmt.Errorf("glpsol: %v: %s", runErr, tail(log, 400))
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("glpsol produced no solution file: %w", err)
	}
	return parseGLPKOutput(string(raw), p)
}

// parseGLPKOutput reads glpsol's printable solution report (--output):
// a Status and Objective header followed by row and column tables. Only
// the column table is consumed; names longer than the table's name column
// wrap onto a continuation line.
func parseGLPKOutput(text string, p *lp.Problem) (*Solution, error) {
	sol := &Solution{Status: StatusUnknown}

	colIndex := make(map[string]int, p.NumCols())
	for i, c := range p.Cols {
		colIndex[lp.SanitizeName(c.Name)] = i
	}

	lines := strings.Split(text, "\n")
	inColumns := false
	var pendingCol = -1 // column awaiting its wrapped activity line

	values := make([]float64, p.NumCols())
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "Status:"):
			sol.Status = glpkStatus(trimmed)
			continue
		case strings.HasPrefix(trimmed, "Objective:"):
			if v, ok := glpkObjective(trimmed); ok {
				sol.Objective = v
			}
			continue
		case strings.Contains(line, "Column name"):
			inColumns = true
			continue
		case strings.Contains(line, "Row name"):
			inColumns = false
			continue
		case strings.HasPrefix(trimmed, "---"):
			continue
		}

		if !inColumns {
			continue
		}
		if trimmed == "" {
			inColumns = false
			continue
		}

		fields := strings.Fields(trimmed)
		if pendingCol >= 0 {
			if v, ok := firstNumber(fields); ok {
				values[pendingCol] = v
			}
			pendingCol = -1
			continue
		}
		if len(fields) < 2 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		idx, known := colIndex[fields[1]]
		if !known {
			continue
		}
		if v, ok := firstNumber(fields[2:]); ok {
			values[idx] = v
		} else {
			pendingCol = idx
		}
	}

	if sol.Status == StatusUnknown {
		return nil, fmt.Errorf("glpsol solution report carries no status line")
	}
	if sol.Status == StatusOptimal || sol.Status == StatusFeasible {
		sol.Values = values
	}
	return sol, nil
}

func glpkStatus(line string) Status {
	switch {
	case strings.Contains(line, "NON-OPTIMAL"):
		return StatusFeasible
	case strings.Contains(line, "OPTIMAL"):
		return StatusOptimal
	case strings.Contains(line, "INFEASIBLE"):
		return StatusInfeasible
	case strings.Contains(line, "UNBOUNDED"):
		return StatusUnbounded
	case strings.Contains(line, "FEASIBLE"):
		return StatusFeasible
	default:
		return StatusError
	}
}

// glpkObjective parses "Objective:  obj = 5.6 (MINimum)".
func glpkObjective(line string) (float64, bool) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return 0, false
	}
	fields := strings.Fields(line[eq+1:])
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	return v, err == nil
}

// firstNumber returns the first parseable float among fields, skipping
// status mnemonics like B, NL, NU.
func firstNumber(fields []string) (float64, bool) {
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
