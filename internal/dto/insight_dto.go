package dto

// Insight focus areas.
const (
	InsightSales     = "sales"
	InsightInventory = "inventory"
	InsightProfit    = "profit"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type InsightQuery struct {
	Type   string `form:"type"   validate:"omitempty,oneof=sales inventory profit"`
	Format string `form:"format" validate:"omitempty,oneof=text html"`
}

type DateRange struct {
	From string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to"   validate:"omitempty,datetime=2006-01-02"`
}

type DetailedInsightRequest struct {
	AnalysisType     string     `json:"analysisType"     validate:"omitempty,oneof=sales inventory profit"`
	DateRange        *DateRange `json:"dateRange"`
	SpecificProducts []int64    `json:"specificProducts" validate:"omitempty,max=50,dive,min=1"`
	Format           string     `json:"format"           validate:"omitempty,oneof=text html"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// InsightResponse has the same shape on success and on degraded upstream;
// Error is only set on the latter.
type InsightResponse struct {
	Type            string                  `json:"type"`
	Insight         string                  `json:"insight"`
	InsightHTML     string                  `json:"insightHtml,omitempty"`
	Timestamp       string                  `json:"timestamp"`
	BusinessMetrics *DashboardStatsResponse `json:"businessMetrics,omitempty"`
	Error           string                  `json:"error,omitempty"`
}
