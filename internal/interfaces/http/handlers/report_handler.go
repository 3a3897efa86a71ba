package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MarketEdge-Intelligence/internal/application/engine"
)

// ReportHandler serves the per-product intelligence endpoints: full report,
// SWOT, and positioning.
type ReportHandler struct {
	engine engine.Engine
}

// NewReportHandler constructs the handler.
func NewReportHandler(e engine.Engine) *ReportHandler {
	return &ReportHandler{engine: e}
}

// Generate handles POST /api/v1/reports/:productID. Generation is idempotent
// within the cache TTL; repeated calls return the cached report.
func (h *ReportHandler) Generate(c *gin.Context) {
	report, err := h.engine.GenerateIntelligenceReport(c.Request.Context(), c.Param("productID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SWOT handles GET /api/v1/reports/:productID/swot.
func (h *ReportHandler) SWOT(c *gin.Context) {
	swot, err := h.engine.GenerateSWOTAnalysis(c.Request.Context(), c.Param("productID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, swot)
}

// Positioning handles GET /api/v1/reports/:productID/positioning.
func (h *ReportHandler) Positioning(c *gin.Context) {
	rec, err := h.engine.GenerateCompetitivePositioning(c.Request.Context(), c.Param("productID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
