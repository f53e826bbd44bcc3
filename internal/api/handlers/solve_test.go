package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"energyflow/internal/api/models"
	"energyflow/internal/lp"
	"energyflow/internal/solver"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBackend serves handler tests without an installed solver binary.
type testBackend struct {
	name   string
	status solver.Status
	solved bool
}

func (b *testBackend) Name() string    { return b.name }
func (b *testBackend) Available() bool { return true }

func (b *testBackend) Solve(_ context.Context, p *lp.Problem, _ solver.Options) (*solver.Solution, error) {
	sol := &solver.Solution{Status: b.status}
	if b.solved {
		sol.Values = make([]float64, p.NumCols())
		sol.Objective = lp.Objective(p, sol.Values)
	}
	return sol, nil
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSolveHandler()
	router.POST("/api/v1/solve", h.Solve)
	router.GET("/api/v1/solvers", ListSolvers)
	return router
}

func postSolve(t *testing.T, router *gin.Engine, req models.SolveRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)
	return w
}

func cycleRequest(solverID string) models.SolveRequest {
	return models.SolveRequest{
		Network: &models.NetworkSpec{
			Buses: []models.BusSpec{{ID: "b1"}, {ID: "b2"}},
			Transformers: []models.TransformerSpec{
				{ID: "t1", Input: "b1", Output: "b2", Eta: 1},
				{ID: "t2", Input: "b2", Output: "b1", Eta: 1},
			},
		},
		Timesteps: 2,
		Solver:    solverID,
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSolveEndpoint(t *testing.T) {
	solver.Register(&testBackend{name: "api-ok", status: solver.StatusOptimal, solved: true})
	router := newRouter()

	req := cycleRequest("api-ok")
	req.Options.IncludeFlows = true
	w := postSolve(t, router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "optimal", resp.Status)
	assert.Equal(t, "api-ok", resp.Solver)
	assert.Equal(t, 2, resp.Summary.Buses)
	assert.Equal(t, 4, resp.Summary.Edges)
	assert.Equal(t, 2, resp.Summary.Timesteps)
	assert.Equal(t, 8, resp.Summary.Variables)
	assert.Len(t, resp.Flows, 8)
	assert.Empty(t, resp.ExtraCapacities)
}

func TestSolveEndpointRejectsMalformedBody(t *testing.T) {
	router := newRouter()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader([]byte("{not json")))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Error.Code)
}

func TestSolveEndpointRequiresNetworkOrFile(t *testing.T) {
	router := newRouter()
	w := postSolve(t, router, models.SolveRequest{Timesteps: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_SCENARIO", decodeError(t, w).Error.Code)
}

func TestSolveEndpointConfigurationError(t *testing.T) {
	router := newRouter()

	// A scenario-level valid network whose CHP shares power and heat bus
	// passes request validation but fails component configuration.
	req := models.SolveRequest{
		Network: &models.NetworkSpec{
			Buses: []models.BusSpec{{ID: "gas"}, {ID: "elec"}},
			CHPs: []models.CHPSpec{
				{ID: "c1", Input: "gas", Power: "elec", Heat: "elec"},
			},
		},
		Timesteps: 1,
		Solver:    "api-ok",
	}
	w := postSolve(t, router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CONFIGURATION_ERROR", decodeError(t, w).Error.Code)
}

func TestSolveEndpointSolverUnavailable(t *testing.T) {
	router := newRouter()
	w := postSolve(t, router, cycleRequest("no-such-backend"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SOLVER_UNAVAILABLE", decodeError(t, w).Error.Code)
}

func TestSolveEndpointInfeasible(t *testing.T) {
	solver.Register(&testBackend{name: "api-infeasible", status: solver.StatusInfeasible})
	router := newRouter()

	w := postSolve(t, router, cycleRequest("api-infeasible"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "MODEL_INFEASIBLE", decodeError(t, w).Error.Code)
}

func TestSolveEndpointTimeout(t *testing.T) {
	solver.Register(&testBackend{name: "api-slow", status: solver.StatusTimeout})
	router := newRouter()

	w := postSolve(t, router, cycleRequest("api-slow"))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "SOLVER_TIMEOUT", decodeError(t, w).Error.Code)
}

func TestSolveEndpointInvestment(t *testing.T) {
	solver.Register(&testBackend{name: "api-invest", status: solver.StatusOptimal, solved: true})
	router := newRouter()

	req := cycleRequest("api-invest")
	req.Invest = true
	w := postSolve(t, router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Summary.Invest)
	// 4 flow variables per timestep plus 4 extra-capacity variables.
	assert.Equal(t, 12, resp.Summary.Variables)
	// Zero-valued investments stay out of the response.
	assert.Empty(t, resp.ExtraCapacities)
}

func TestListSolvers(t *testing.T) {
	router := newRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/solvers", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Solvers []models.SolverInfo `json:"solvers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	names := make(map[string]bool)
	for _, s := range resp.Solvers {
		names[s.Name] = true
	}
	assert.True(t, names["glpk"])
	assert.True(t, names["cbc"])
}
