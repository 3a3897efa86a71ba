package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MarketEdge-Intelligence/internal/application/engine"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
)

// ClusterHandler serves the clustering endpoint.
type ClusterHandler struct {
	engine engine.Engine
}

// NewClusterHandler constructs the handler.
func NewClusterHandler(e engine.Engine) *ClusterHandler {
	return &ClusterHandler{engine: e}
}

// ClusterRequest is the body of POST /api/v1/clusters.
type ClusterRequest struct {
	ProductIDs []string `json:"product_ids" binding:"required,min=1"`
	Method     string   `json:"method"`
}

// Cluster handles POST /api/v1/clusters.
func (h *ClusterHandler) Cluster(c *gin.Context) {
	var req ClusterRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Method == "" {
		req.Method = string(analysis.ClusterFeatureBased)
	}

	result, err := h.engine.PerformProductClustering(c.Request.Context(),
		req.ProductIDs, analysis.ClusterMethod(req.Method))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
