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
	Register(&cbcBackend{bin: "cbc"})
}

// cbcBackend runs the COIN-OR CBC standalone solver over an LP file and
// reads back CBC's name-keyed solution file.
type cbcBackend struct {
	bin string
}

func (c *cbcBackend) Name() string { return "cbc" }

func (c *cbcBackend) Available() bool {
	_, err := exec.LookPath(c.bin)
	return err == nil
}

func (c *cbcBackend) Solve(ctx context.Context, p *lp.Problem, opts Options) (*Solution, error) {
	bin, err := exec.LookPath(c.bin)
	if err != nil {
		return nil, fmt.Errorf("cbc not found: %w", ErrUnavailable)
	}

	dir, err := os.MkdirTemp("", "energyflow-cbc-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	lpPath := filepath.Join(dir, "problem.lp")
	outPath := filepath.Join(dir, "solution.sol")
	if err := lp.WriteLPFile(p, lpPath); err != nil {
		return nil, err
	}

	args := []string{lpPath}
	if opts.TimeLimit > 0 {
		args = append(args, "sec", strconv.Itoa(int(opts.TimeLimit.Seconds())))
	}
	args = append(args, "solve", "solution", outPath)

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
		return nil, fmt.Errorf("cbc: %w", ErrTimeout)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if runErr != nil {
		return nil, fmt.Errorf("cbc: %v: %s", runErr, tail(logBuf.String(), 400))
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("cbc produced no solution file: %w", err)
	}
	return parseCBCSolution(string(raw), p)
}

// parseCBCSolution reads CBC's solution file: a verdict line such as
// "Optimal - objective value 5.60000000" followed by one line per nonzero
// variable, "index name value reducedCost". Infeasible runs mark lines
// with a "**" prefix, which is stripped.
func parseCBCSolution(text string, p *lp.Problem) (*Solution, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("empty cbc solution file")
	}

	sol := &Solution{Status: cbcStatus(lines[0])}
	if v, ok := cbcObjective(lines[0]); ok {
		sol.Objective = v
	}
	if sol.Status != StatusOptimal && sol.Status != StatusFeasible {
		return sol, nil
	}

	colIndex := make(map[string]int, p.NumCols())
	for i, c := range p.Cols {
		colIndex[lp.SanitizeName(c.Name)] = i
	}

	values := make([]float64, p.NumCols())
	for _, line := range lines[1:] {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "**"))
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		idx, known := colIndex[fields[1]]
		if !known {
			continue
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("cbc solution line %q: %w", line, err)
		}
		values[idx] = v
	}
	sol.Values = values
	return sol, nil
}

func cbcStatus(line string) Status {
	l := strings.ToLower(line)
	switch {
	case strings.HasPrefix(l, "optimal"):
		return StatusOptimal
	case strings.HasPrefix(l, "infeasible"):
		return StatusInfeasible
	case strings.HasPrefix(l, "unbounded"):
		return StatusUnbounded
	case strings.Contains(l, "time limit"), strings.HasPrefix(l, "stopped on time"):
		return StatusTimeout
	case strings.HasPrefix(l, "stopped"):
		return StatusFeasible
	default:
		return StatusError
	}
}

// cbcObjective parses the "objective value X" suffix of the verdict line.
func cbcObjective(line string) (float64, bool) {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == "value" && i+1 < len(fields) {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			return v, err == nil
		}
	}
	return 0, false
}
