package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MarketEdge-Intelligence/internal/application/engine"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	engine  engine.Engine
	version string
	startAt time.Time
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(e engine.Engine, version string) *HealthHandler {
	return &HealthHandler{
		engine:  e,
		version: version,
		startAt: time.Now(),
	}
}

// Liveness handles GET /healthz. It only confirms the process is serving;
// dependencies are not checked.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "alive",
		"version": h.version,
		"uptime":  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz. It runs the engine health check and returns
// 503 when a required dependency is down.
func (h *HealthHandler) Readiness(c *gin.Context) {
	status, err := h.engine.HealthCheck(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
