package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"energyflow/internal/analysis"
	"energyflow/internal/api/models"
	"energyflow/internal/config"
	"energyflow/internal/model"
	"energyflow/internal/optimize"
	"energyflow/internal/solver"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SolveHandler handles model build-and-solve requests.
type SolveHandler struct{}

// NewSolveHandler creates a new solve handler.
func NewSolveHandler() *SolveHandler {
	return &SolveHandler{}
}

// Solve handles POST /api/v1/solve.
func (h *SolveHandler) Solve(c *gin.Context) {
	var req models.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	cfg, err := h.buildConfig(&req)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SCENARIO", err)
		return
	}

	entities, err := cfg.Entities()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SCENARIO", err)
		return
	}

	edges := model.DeriveEdges(entities.Components())
	m, err := optimize.Build(entities, edges, cfg.TimestepIndices(), cfg.BuildOptions())
	if err != nil {
		status, code := buildErrorStatus(err)
		writeError(c, status, code, err)
		return
	}

	opts := optimize.SolveOptions{
		Solver: solver.Options{
			Stream:    req.Options.Stream,
			TimeLimit: time.Duration(req.Options.TimeLimitSeconds * float64(time.Second)),
		},
		Debug:     req.Options.DebugFile != "",
		DebugPath: req.Options.DebugFile,
	}

	instance, err := optimize.Solve(c.Request.Context(), m, cfg.Solver, opts)
	if err != nil {
		status, code := solveErrorStatus(err)
		writeError(c, status, code, err)
		return
	}

	report := analysis.Build(instance)
	log.Printf("solved model solver=%s vars=%d rows=%d objective=%g",
		cfg.Solver, m.Problem.NumCols(), m.Problem.NumRows(), report.Objective)

	c.JSON(http.StatusOK, h.buildResponse(cfg, m, instance, report, req.Options.IncludeFlows))
}

// buildConfig resolves the request into one validated scenario, loading
// the referenced file when no inline network is given.
func (h *SolveHandler) buildConfig(req *models.SolveRequest) (*config.Config, error) {
	var cfg *config.Config
	if req.Network != nil {
		cfg = req.ToConfig()
	} else if req.ScenarioFile != "" {
		loaded, err := config.LoadUnchecked(req.ScenarioFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		// Request-level knobs override the file.
		if req.Timesteps > 0 {
			cfg.Timesteps = req.Timesteps
		}
		if req.Invest {
			cfg.Invest = true
		}
		if req.Solver != "" {
			cfg.Solver = req.Solver
		}
	} else {
		return nil, errors.New("request carries neither network nor scenario_file")
	}
	if cfg.Solver == "" {
		cfg.Solver = "glpk"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *SolveHandler) buildResponse(cfg *config.Config, m *optimize.Model, in *optimize.Instance, report *analysis.Report, includeFlows bool) models.SolveResponse {
	resp := models.SolveResponse{
		ID:        uuid.NewString(),
		Status:    in.Solution.Status.String(),
		Solver:    cfg.Solver,
		Objective: report.Objective,
		Summary: models.ModelSummary{
			Buses:              len(m.Entities.Buses),
			Edges:              len(m.Edges),
			Timesteps:          len(m.Timesteps),
			Variables:          m.Problem.NumCols(),
			Constraints:        m.Problem.NumRows(),
			Invest:             m.Opts.Invest,
			MaxBalanceResidual: report.MaxResidual(),
		},
	}
	if includeFlows {
		for _, f := range report.Flows {
			resp.Flows = append(resp.Flows, models.FlowRow{
				Src: f.Src, Dst: f.Dst, Timestep: f.Timestep,
				Flow: f.Flow, Utilization: f.Utilization,
			})
		}
	}
	if m.Opts.Invest {
		for _, e := range m.Edges {
			if v, ok := in.ExtraCapacity(e); ok && v > 0 {
				resp.ExtraCapacities = append(resp.ExtraCapacities, models.ExtraCapacity{
					Src: e.Src, Dst: e.Dst, Value: v,
				})
			}
		}
	}
	return resp
}

// buildErrorStatus maps construction-time failures to HTTP codes.
func buildErrorStatus(err error) (int, string) {
	var cfgErr *model.ConfigError
	if errors.As(err, &cfgErr) {
		return http.StatusBadRequest, "CONFIGURATION_ERROR"
	}
	var conErr *optimize.ConstructionError
	if errors.As(err, &conErr) {
		return http.StatusBadRequest, "MODEL_ERROR"
	}
	return http.StatusBadRequest, "INVALID_SCENARIO"
}

// solveErrorStatus maps solve-time failures to HTTP codes. Infeasible and
// unbounded are client-resolvable model states, not server faults.
func solveErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, solver.ErrUnavailable):
		return http.StatusServiceUnavailable, "SOLVER_UNAVAILABLE"
	case errors.Is(err, solver.ErrInfeasible):
		return http.StatusUnprocessableEntity, "MODEL_INFEASIBLE"
	case errors.Is(err, solver.ErrUnbounded):
		return http.StatusUnprocessableEntity, "MODEL_UNBOUNDED"
	case errors.Is(err, solver.ErrTimeout):
		return http.StatusGatewayTimeout, "SOLVER_TIMEOUT"
	default:
		return http.StatusInternalServerError, "SOLVE_ERROR"
	}
}

func writeError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
}
