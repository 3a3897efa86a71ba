// Package http assembles the gin route tree and the HTTP server over the
// analysis engine.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MarketEdge-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/MarketEdge-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies needed
// to build the route tree.
type RouterConfig struct {
	AnalysisHandler *handlers.AnalysisHandler
	ReportHandler   *handlers.ReportHandler
	ClusterHandler  *handlers.ClusterHandler
	HealthHandler   *handlers.HealthHandler

	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector prometheus.Collector
	Mode      string
}

// NewRouter builds the complete gin engine: global middleware, public probes,
// the metrics endpoint, and the versioned API group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(ginMode(cfg.Mode))
	}

	r := gin.New()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	api := r.Group("/api/v1")
	{
		if cfg.AnalysisHandler != nil {
			api.POST("/similarity", cfg.AnalysisHandler.Analyze)
			api.POST("/similarity/batch", cfg.AnalysisHandler.AnalyzeBatch)
		}
		if cfg.ReportHandler != nil {
			api.POST("/reports/:productID", cfg.ReportHandler.Generate)
			api.GET("/reports/:productID/swot", cfg.ReportHandler.SWOT)
			api.GET("/reports/:productID/positioning", cfg.ReportHandler.Positioning)
		}
		if cfg.ClusterHandler != nil {
			api.POST("/clusters", cfg.ClusterHandler.Cluster)
		}
	}

	return r
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
