package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"energyflow/internal/api/handlers"
	"energyflow/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

var reqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "energyflow_api_http_requests_total",
	Help: "HTTP requests handled by the energyflow API",
}, []string{"path", "status"})

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(countRequests())

	solveHandler := handlers.NewSolveHandler()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/solve", solveHandler.Solve)
		api.GET("/solvers", handlers.ListSolvers)
	}

	// The gin engine is a plain http.Handler, so CORS wraps the whole
	// router at the server boundary.
	handler := cors.Default().Handler(router)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		reqTotal.WithLabelValues(c.FullPath(), fmt.Sprint(c.Writer.Status())).Inc()
	}
}
