package optimize

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "energyflow_model_builds_total",
		Help: "Model assemblies by outcome",
	}, []string{"outcome"})

	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "energyflow_solves_total",
		Help: "Solve calls by backend and terminal status",
	}, []string{"solver", "status"})

	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "energyflow_solve_duration_seconds",
		Help:    "Wall-clock duration of external solver runs",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"solver"})
)
