package dto

// ─── Query DTOs ──────────────────────────────────────────────────────────────

type TopProductsQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=50"`
}

type RecentTransactionsQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// RevenueChartQuery selects the window ending on Until (UTC, default today).
type RevenueChartQuery struct {
	Days  int    `form:"days"  validate:"omitempty,min=1,max=90"`
	Until string `form:"until" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DashboardStatsResponse struct {
	TotalRevenue  string `json:"totalRevenue"`
	NetProfit     string `json:"netProfit"`
	ItemsSold     int64  `json:"itemsSold"`
	LowStockItems int64  `json:"lowStockItems"`
}

type TopProductResponse struct {
	Product   ProductResponse `json:"product"`
	UnitsSold int64           `json:"unitsSold"`
	Revenue   string          `json:"revenue"`
}

// Transaction types of the recent feed.
const (
	TransactionSale     = "sale"
	TransactionPurchase = "purchase"
)

type RecentTransactionResponse struct {
	ID          int64  `json:"id"`
	ProductName string `json:"productName"`
	Type        string `json:"type"` // sale | purchase
	Quantity    int    `json:"quantity"`
	Amount      string `json:"amount"`
	CreatedAt   string `json:"createdAt"`
}

// DailyRevenueResponse is one day of the revenue chart. Profit is revenue
// minus purchase spend for that day.
type DailyRevenueResponse struct {
	Date      string `json:"date"`
	Revenue   string `json:"revenue"`
	Purchases string `json:"purchases"`
	Profit    string `json:"profit"`
	ItemsSold int64  `json:"itemsSold"`
}
