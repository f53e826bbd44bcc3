package handlers

import (
	"net/http"

	"energyflow/internal/api/models"
	"energyflow/internal/solver"

	"github.com/gin-gonic/gin"
)

// ListSolvers handles GET /api/v1/solvers: the registered backends and
// whether each can actually run on this host.
func ListSolvers(c *gin.Context) {
	var out []models.SolverInfo
	for _, name := range solver.Names() {
		b, err := solver.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, models.SolverInfo{Name: name, Available: b.Available()})
	}
	c.JSON(http.StatusOK, gin.H{"solvers": out})
}
