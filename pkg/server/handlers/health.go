package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memograph/memograph/pkg/factstore"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	store *factstore.Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store *factstore.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck handles GET /health - basic liveness check.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "memograph",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// ReadinessCheck handles GET /ready - verifies the graph backend answers.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	response := gin.H{
		"status":    "ready",
		"service":   "memograph",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.store == nil {
		response["status"] = "not_ready"
		response["error"] = "store not initialized"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	start := time.Now()
	stats, err := h.store.Driver().Stats(c.Request.Context())
	duration := time.Since(start)
	if err != nil {
		response["status"] = "not_ready"
		response["database"] = gin.H{
			"status":   "unhealthy",
			"error":    err.Error(),
			"duration": duration.String(),
		}
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response["database"] = gin.H{
		"status":     "healthy",
		"duration":   duration.String(),
		"node_count": stats.NodeCount,
		"edge_count": stats.EdgeCount,
	}
	c.JSON(http.StatusOK, response)
}
