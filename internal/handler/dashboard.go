package handler

import (
	"net/http"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/middleware"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves /api/dashboard/* and /api/inventory/low-stock.
type DashboardHandler struct{ svc service.AnalyticsService }

func NewDashboardHandler(svc service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	resp, err := h.svc.DashboardStats(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopProducts godoc
// @Summary      Best sellers by units sold
// @Tags         dashboard
// @Produce      json
// @Param        limit  query     int  false  "1..50, default 5"
// @Success      200    {array}   dto.TopProductResponse
// @Security     BearerAuth
// @Router       /api/dashboard/top-products [get]
func (h *DashboardHandler) TopProducts(c *gin.Context) {
	var q dto.TopProductsQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.TopSellingProducts(c.Request.Context(), middleware.OwnerID(c), q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) RecentTransactions(c *gin.Context) {
	var q dto.RecentTransactionsQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.RecentTransactions(c.Request.Context(), middleware.OwnerID(c), q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RevenueChart godoc
// @Summary      Daily revenue, purchase spend and profit
// @Tags         dashboard
// @Produce      json
// @Param        days   query     int     false  "1..90, default 7"
// @Param        until  query     string  false  "last day (YYYY-MM-DD, UTC), default today"
// @Success      200    {array}   dto.DailyRevenueResponse
// @Security     BearerAuth
// @Router       /api/dashboard/revenue-chart [get]
func (h *DashboardHandler) RevenueChart(c *gin.Context) {
	var q dto.RevenueChartQuery
	if !bindQuery(c, &q) {
		return
	}
	until := time.Now().UTC()
	if q.Until != "" {
		// format already checked by the datetime tag
		until, _ = time.Parse(dto.Date, q.Until)
	}
	resp, err := h.svc.RevenueSeries(c.Request.Context(), middleware.OwnerID(c), q.Days, until)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStockProducts(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
