package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string           `json:"name"          validate:"required,min=1,max=120"`
	Category      string           `json:"category"      validate:"required,min=1,max=60"`
	BuyingPrice   *decimal.Decimal `json:"buyingPrice"   validate:"required,money"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice"  validate:"required,money"`
	CurrentStock  *int             `json:"currentStock"  validate:"omitempty,min=0,max=1000000"`
	MinStockLevel *int             `json:"minStockLevel" validate:"omitempty,min=0,max=1000000"`
}

// UpdateProductRequest carries a partial product; nil fields are left untouched.
type UpdateProductRequest struct {
	Name          *string          `json:"name"          validate:"omitempty,min=1,max=120"`
	Category      *string          `json:"category"      validate:"omitempty,min=1,max=60"`
	BuyingPrice   *decimal.Decimal `json:"buyingPrice"   validate:"omitempty,money"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice"  validate:"omitempty,money"`
	CurrentStock  *int             `json:"currentStock"  validate:"omitempty,min=0,max=1000000"`
	MinStockLevel *int             `json:"minStockLevel" validate:"omitempty,min=0,max=1000000"`
}

// IsEmpty reports whether no field was provided.
func (r UpdateProductRequest) IsEmpty() bool {
	return r.Name == nil && r.Category == nil && r.BuyingPrice == nil &&
		r.SellingPrice == nil && r.CurrentStock == nil && r.MinStockLevel == nil
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            int64  `json:"id"`
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	BuyingPrice   string `json:"buyingPrice"`
	SellingPrice  string `json:"sellingPrice"`
	CurrentStock  int    `json:"currentStock"`
	MinStockLevel int    `json:"minStockLevel"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ProductProfitability is the price-spread view of a single product.
// It is unrelated to the cash-basis netProfit of the dashboard.
type ProductProfitability struct {
	ProductID       int64  `json:"productId"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	BuyingPrice     string `json:"buyingPrice"`
	SellingPrice    string `json:"sellingPrice"`
	CurrentStock    int    `json:"currentStock"`
	UnitProfit      string `json:"unitProfit"`
	ProfitMargin    string `json:"profitMargin"` // percent
	PotentialProfit string `json:"potentialProfit"`
	NegativeMargin  bool   `json:"negativeMargin"`
}

type ProfitabilityResponse struct {
	Products             []ProductProfitability `json:"products"`
	TotalInventoryValue  string                 `json:"totalInventoryValue"`
	TotalPotentialProfit string                 `json:"totalPotentialProfit"`
	AverageMargin        string                 `json:"averageMargin"`
}
