package models

// SolveResponse is the result of one solve run.
type SolveResponse struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	Solver    string  `json:"solver"`
	Objective float64 `json:"objective"`

	Summary ModelSummary `json:"summary"`

	// Flows is the per-(edge,timestep) ledger; present only when
	// include_flows was requested.
	Flows []FlowRow `json:"flows,omitempty"`

	// ExtraCapacities lists solver-chosen capacity additions per edge;
	// present only in investment mode.
	ExtraCapacities []ExtraCapacity `json:"extra_capacities,omitempty"`
}

// ModelSummary describes the assembled problem and the conservation
// check of its solution.
type ModelSummary struct {
	Buses              int     `json:"buses"`
	Edges              int     `json:"edges"`
	Timesteps          int     `json:"timesteps"`
	Variables          int     `json:"variables"`
	Constraints        int     `json:"constraints"`
	Invest             bool    `json:"invest"`
	MaxBalanceResidual float64 `json:"max_balance_residual"`
}

// FlowRow is one ledger entry.
type FlowRow struct {
	Src         string  `json:"src"`
	Dst         string  `json:"dst"`
	Timestep    int     `json:"timestep"`
	Flow        float64 `json:"flow"`
	Utilization float64 `json:"utilization"`
}

// ExtraCapacity is one invested edge.
type ExtraCapacity struct {
	Src   string  `json:"src"`
	Dst   string  `json:"dst"`
	Value float64 `json:"value"`
}

// SolverInfo describes one registered backend.
type SolverInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code plus a message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
