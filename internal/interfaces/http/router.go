// Package http assembles the gin route tree and the server lifecycle.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/prometheus"
	"github.com/quantnexusai/faves-v3-benchmark/internal/interfaces/http/handlers"
	"github.com/quantnexusai/faves-v3-benchmark/internal/interfaces/http/middleware"
)

// RouterConfig aggregates handler and middleware dependencies.
type RouterConfig struct {
	ClassifyHandler *handlers.ClassifyHandler
	HealthHandler   *handlers.HealthHandler

	Logger      logging.Logger
	Metrics     *prometheus.Metrics
	MetricsPath string
	Mode        string
}

// NewRouter builds the full route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(logger))

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	{
		api.POST("/classify", cfg.ClassifyHandler.Classify)
		api.POST("/classify/batch", cfg.ClassifyHandler.ClassifyBatch)
		api.POST("/admin/snapshot/reload", cfg.ClassifyHandler.Reload)
	}
	return r
}
