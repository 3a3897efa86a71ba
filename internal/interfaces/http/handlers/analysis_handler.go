package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MarketEdge-Intelligence/internal/application/engine"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
)

// AnalysisHandler serves the pairwise similarity endpoints.
type AnalysisHandler struct {
	engine engine.Engine
}

// NewAnalysisHandler constructs the handler.
func NewAnalysisHandler(e engine.Engine) *AnalysisHandler {
	return &AnalysisHandler{engine: e}
}

// SimilarityRequest is the body of POST /api/v1/similarity.
type SimilarityRequest struct {
	SourceID     string `json:"source_id" binding:"required"`
	TargetID     string `json:"target_id" binding:"required"`
	AnalysisType string `json:"analysis_type"`
}

// Analyze handles POST /api/v1/similarity.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req SimilarityRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = string(analysis.TypeComprehensive)
	}

	result, err := h.engine.AnalyzeProductSimilarity(c.Request.Context(),
		req.SourceID, req.TargetID, analysis.Type(req.AnalysisType))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BatchRequest is the body of POST /api/v1/similarity/batch.
type BatchRequest struct {
	Pairs        []engine.ProductPair `json:"pairs" binding:"required,min=1"`
	AnalysisType string               `json:"analysis_type"`
}

// BatchResponse wraps the batch result with counts so callers can see how
// many pairs were skipped.
type BatchResponse struct {
	Requested int                                   `json:"requested"`
	Succeeded int                                   `json:"succeeded"`
	Results   []*analysis.ProductSimilarityAnalysis `json:"results"`
}

// AnalyzeBatch handles POST /api/v1/similarity/batch. The engine processes
// pairs sequentially; large batches take proportionally long.
func (h *AnalysisHandler) AnalyzeBatch(c *gin.Context) {
	var req BatchRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = string(analysis.TypeComprehensive)
	}

	results, err := h.engine.BatchAnalyzeSimilarities(c.Request.Context(),
		req.Pairs, analysis.Type(req.AnalysisType))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, BatchResponse{
		Requested: len(req.Pairs),
		Succeeded: len(results),
		Results:   results,
	})
}
