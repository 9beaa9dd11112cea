package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcompliance "github.com/quantnexusai/faves-v3-benchmark/internal/application/compliance"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	svc appcompliance.Service
}

// NewHealthHandler builds a HealthHandler.
func NewHealthHandler(svc appcompliance.Service) *HealthHandler {
	return &HealthHandler{svc: svc}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The service is ready once a snapshot has
// been loaded.
func (h *HealthHandler) Readiness(c *gin.Context) {
	version := h.svc.SnapshotVersion()
	if version == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "snapshot_version": version})
}
