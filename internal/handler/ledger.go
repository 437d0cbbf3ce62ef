package handler

import (
	"net/http"

	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/middleware"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves /api/purchases and /api/sales.
type LedgerHandler struct{ svc service.LedgerService }

func NewLedgerHandler(svc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

func (h *LedgerHandler) ListPurchases(c *gin.Context) {
	resp, err := h.svc.ListPurchases(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordPurchase godoc
// @Summary      Record a purchase and add its quantity to stock
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RecordPurchaseRequest  true  "Purchase"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /api/purchases [post]
func (h *LedgerHandler) RecordPurchase(c *gin.Context) {
	var req dto.RecordPurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPurchase(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LedgerHandler) ListSales(c *gin.Context) {
	resp, err := h.svc.ListSales(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordSale godoc
// @Summary      Record a sale; rejected when stock is insufficient
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RecordSaleRequest  true  "Sale"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /api/sales [post]
func (h *LedgerHandler) RecordSale(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordSale(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
