package handler

import (
	"net/http"

	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/middleware"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/gin-gonic/gin"
)

// InsightsHandler always answers 200 once the request validates; upstream
// failures are reported inside the payload.
type InsightsHandler struct{ svc service.InsightService }

func NewInsightsHandler(svc service.InsightService) *InsightsHandler {
	return &InsightsHandler{svc: svc}
}

// Insights godoc
// @Summary      Narrative insights over current business metrics
// @Tags         ai
// @Produce      json
// @Param        type    query     string  false  "sales | inventory | profit"
// @Param        format  query     string  false  "text | html"
// @Success      200     {object}  dto.InsightResponse
// @Security     BearerAuth
// @Router       /api/ai/insights [get]
func (h *InsightsHandler) Insights(c *gin.Context) {
	var q dto.InsightQuery
	if !bindQuery(c, &q) {
		return
	}
	resp := h.svc.Generate(c.Request.Context(), middleware.OwnerID(c), service.InsightRequest{
		Type:   q.Type,
		Format: q.Format,
	})
	c.JSON(http.StatusOK, resp)
}

func (h *InsightsHandler) Detailed(c *gin.Context) {
	var req dto.DetailedInsightRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp := h.svc.Generate(c.Request.Context(), middleware.OwnerID(c), service.InsightRequest{
		Type:       req.AnalysisType,
		Format:     req.Format,
		DateRange:  req.DateRange,
		ProductIDs: req.SpecificProducts,
	})
	c.JSON(http.StatusOK, resp)
}
