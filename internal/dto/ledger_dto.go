package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecordPurchaseRequest struct {
	ProductID   int64            `json:"productId"   validate:"required,min=1"`
	Quantity    int              `json:"quantity"    validate:"required,min=1,max=1000000"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"   validate:"required,money"`
	TotalAmount *decimal.Decimal `json:"totalAmount" validate:"required,money"`
	Supplier    *string          `json:"supplier"    validate:"omitempty,max=120"`
	Notes       *string          `json:"notes"       validate:"omitempty,max=500"`
}

type RecordSaleRequest struct {
	ProductID   int64            `json:"productId"   validate:"required,min=1"`
	Quantity    int              `json:"quantity"    validate:"required,min=1,max=1000000"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"   validate:"required,money"`
	TotalAmount *decimal.Decimal `json:"totalAmount" validate:"required,money"`
	Customer    *string          `json:"customer"    validate:"omitempty,max=120"`
	Notes       *string          `json:"notes"       validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseResponse struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	Quantity    int     `json:"quantity"`
	UnitPrice   string  `json:"unitPrice"`
	TotalAmount string  `json:"totalAmount"`
	Supplier    *string `json:"supplier"`
	Notes       *string `json:"notes"`
	CreatedAt   string  `json:"createdAt"`
}

type SaleResponse struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	Quantity    int     `json:"quantity"`
	UnitPrice   string  `json:"unitPrice"`
	TotalAmount string  `json:"totalAmount"`
	Customer    *string `json:"customer"`
	Notes       *string `json:"notes"`
	CreatedAt   string  `json:"createdAt"`
}
