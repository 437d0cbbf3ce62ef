package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/infra"
	"github.com/offset122/PubInventoryTracker/internal/middleware"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	products service.ProductService
	meta     infra.ReportMeta
}

// NewReportsHandler takes the business name and currency printed on reports.
func NewReportsHandler(products service.ProductService, businessName, currency string) *ReportsHandler {
	return &ReportsHandler{
		products: products,
		meta:     infra.ReportMeta{BusinessName: businessName, Currency: currency},
	}
}

// ProfitabilityPDF godoc
// @Summary      Profitability view as a PDF download
// @Tags         reports
// @Produce      application/pdf
// @Success      200
// @Security     BearerAuth
// @Router       /api/reports/profitability.pdf [get]
func (h *ReportsHandler) ProfitabilityPDF(c *gin.Context) {
	report, err := h.products.Profitability(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	meta := h.meta
	meta.GeneratedAt = time.Now()

	var buf bytes.Buffer
	if err := infra.GenerateProfitabilityPDF(&buf, *report, meta); err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="profitability.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
