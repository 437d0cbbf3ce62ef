package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/currency"
	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/infra"
	"github.com/offset122/PubInventoryTracker/internal/metrics"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
)

// Texts returned in place of a model answer.
const (
	InsightEmptyText       = "Unable to generate insights at this time."
	InsightUnavailableText = "AI insights are temporarily unavailable. Please check your configuration and try again."
)

// Window sizes of the business snapshot sent upstream.
const (
	insightRecentWindow = 20
	insightTopSellers   = 5
)

// InsightRequest is the normalized form of both insight endpoints.
type InsightRequest struct {
	Type       string
	Format     string
	DateRange  *dto.DateRange
	ProductIDs []int64
}

// InsightService never fails: upstream and metric-read errors are folded
// into the payload's error field.
type InsightService interface {
	Generate(ctx context.Context, owner uuid.UUID, req InsightRequest) dto.InsightResponse
}

type InsightOptions struct {
	Timeout      time.Duration
	Currency     string
	BusinessName string
}

type insightService struct {
	products  repository.ProductRepository
	ledger    LedgerService
	analytics AnalyticsService
	gen       infra.TextGenerator
	breaker   *infra.CircuitBreaker
	opts      InsightOptions
	now       func() time.Time
}

func NewInsightService(
	products repository.ProductRepository,
	ledger LedgerService,
	analytics AnalyticsService,
	gen infra.TextGenerator,
	breaker *infra.CircuitBreaker,
	opts InsightOptions,
) InsightService {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if breaker == nil {
		breaker = infra.NewCircuitBreaker(infra.DefaultCBConfig())
	}
	return &insightService{
		products:  products,
		ledger:    ledger,
		analytics: analytics,
		gen:       gen,
		breaker:   breaker,
		opts:      opts,
		now:       time.Now,
	}
}

// errMetricsUnavailable wraps any storage failure while building the snapshot.
var errMetricsUnavailable = errors.New("business metrics unavailable")

func (s *insightService) Generate(ctx context.Context, owner uuid.UUID, req InsightRequest) dto.InsightResponse {
	kind := req.Type
	if kind == "" {
		kind = dto.InsightSales
	}
	resp := dto.InsightResponse{Type: kind, Timestamp: s.now().UTC().Format(dto.Timestamp)}
	provider := s.providerName()

	stats, text, err := s.generate(ctx, owner, kind, req)
	if err != nil {
		log.Warn().Err(err).
			Str("user_id", owner.String()).
			Str("provider", provider).
			Str("type", kind).
			Msg("insight generation failed")
		metrics.RecordInsight(provider, "error")
		resp.Insight = InsightUnavailableText
		resp.Error = publicInsightError(err)
		return resp
	}

	if strings.TrimSpace(text) == "" {
		metrics.RecordInsight(provider, "empty")
		text = InsightEmptyText
	} else {
		metrics.RecordInsight(provider, "ok")
	}
	resp.Insight = text
	resp.BusinessMetrics = stats
	if req.Format == "html" {
		resp.InsightHTML = renderMarkdown(text)
	}
	return resp
}

func (s *insightService) generate(ctx context.Context, owner uuid.UUID, kind string, req InsightRequest) (*dto.DashboardStatsResponse, string, error) {
	if s.gen == nil {
		return nil, "", infra.ErrAIKeyMissing
	}
	if err := s.gen.Ready(); err != nil {
		return nil, "", err
	}

	snap, stats, err := s.snapshot(ctx, owner, kind, req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errMetricsUnavailable, err)
	}
	prompt, err := buildPrompt(snap)
	if err != nil {
		return nil, "", err
	}

	tctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var text string
	err = s.breaker.Execute(func() error {
		out, genErr := s.gen.Generate(tctx, prompt)
		if errors.Is(genErr, infra.ErrEmptyCompletion) {
			return nil
		}
		text = out
		return genErr
	})
	if err != nil {
		return nil, "", err
	}
	return stats, text, nil
}

func (s *insightService) providerName() string {
	if s.gen == nil {
		return "none"
	}
	return s.gen.Name()
}

// publicInsightError is the client-facing description of err.
func publicInsightError(err error) string {
	switch {
	case errors.Is(err, infra.ErrAIKeyMissing):
		return "AI API key is not configured"
	case errors.Is(err, infra.ErrCircuitOpen):
		return "AI provider is temporarily disabled after repeated failures"
	case errors.Is(err, context.DeadlineExceeded):
		return "AI provider timed out"
	case errors.Is(err, errMetricsUnavailable):
		return "Business metrics could not be read"
	default:
		return "AI provider request failed"
	}
}

// ── Snapshot ─────────────────────────────────────────────────────────────────

type snapshotMetrics struct {
	TotalRevenue  string `json:"totalRevenue"`
	NetProfit     string `json:"netProfit"`
	ItemsSold     int64  `json:"itemsSold"`
	LowStockItems int64  `json:"lowStockItems"`
}

type snapshotProduct struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	BuyingPrice   string `json:"buyingPrice"`
	SellingPrice  string `json:"sellingPrice"`
	CurrentStock  int    `json:"currentStock"`
	MinStockLevel int    `json:"minStockLevel"`
	LowStock      bool   `json:"lowStock"`
}

type snapshotTopSeller struct {
	Name      string `json:"name"`
	UnitsSold int64  `json:"unitsSold"`
	Revenue   string `json:"revenue"`
}

type snapshotEntry struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

type businessSnapshot struct {
	Business        string              `json:"business"`
	Focus           string              `json:"focus"`
	Metrics         snapshotMetrics     `json:"metrics"`
	Products        []snapshotProduct   `json:"products"`
	TopSellers      []snapshotTopSeller `json:"topSellers"`
	RecentSales     []snapshotEntry     `json:"recentSales"`
	RecentPurchases []snapshotEntry     `json:"recentPurchases"`
	DateRange       *dto.DateRange      `json:"dateRange,omitempty"`
	FocusProducts   []string            `json:"focusProducts,omitempty"`
}

func (s *insightService) snapshot(ctx context.Context, owner uuid.UUID, kind string, req InsightRequest) (*businessSnapshot, *dto.DashboardStatsResponse, error) {
	products, err := s.products.List(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	sales, err := s.ledger.RecentSales(ctx, owner, insightRecentWindow)
	if err != nil {
		return nil, nil, err
	}
	purchases, err := s.ledger.RecentPurchases(ctx, owner, insightRecentWindow)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.analytics.DashboardStats(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	top, err := s.analytics.TopSellingProducts(ctx, owner, insightTopSellers)
	if err != nil {
		return nil, nil, err
	}

	cur := s.opts.Currency
	snap := &businessSnapshot{
		Business: s.opts.BusinessName,
		Focus:    kind,
		Metrics: snapshotMetrics{
			TotalRevenue:  currency.FormatString(stats.TotalRevenue, cur),
			NetProfit:     currency.FormatString(stats.NetProfit, cur),
			ItemsSold:     stats.ItemsSold,
			LowStockItems: stats.LowStockItems,
		},
		Products:        make([]snapshotProduct, 0, len(products)),
		TopSellers:      make([]snapshotTopSeller, 0, len(top)),
		RecentSales:     make([]snapshotEntry, 0, len(sales)),
		RecentPurchases: make([]snapshotEntry, 0, len(purchases)),
		DateRange:       req.DateRange,
	}

	wanted := make(map[int64]bool, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		wanted[id] = true
	}
	for _, p := range products {
		snap.Products = append(snap.Products, snapshotProduct{
			Name:          p.Name,
			Category:      p.Category,
			BuyingPrice:   currency.Format(p.BuyingPrice, cur),
			SellingPrice:  currency.Format(p.SellingPrice, cur),
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
			LowStock:      p.IsLowStock(),
		})
		if wanted[p.ID] {
			snap.FocusProducts = append(snap.FocusProducts, p.Name)
		}
	}
	for _, t := range top {
		snap.TopSellers = append(snap.TopSellers, snapshotTopSeller{
			Name:      t.Product.Name,
			UnitsSold: t.UnitsSold,
			Revenue:   currency.FormatString(t.Revenue, cur),
		})
	}
	for _, sale := range sales {
		snap.RecentSales = append(snap.RecentSales, snapshotEntryOf(sale.Product, sale.Quantity, sale.TotalAmount.String(), sale.CreatedAt, cur))
	}
	for _, p := range purchases {
		snap.RecentPurchases = append(snap.RecentPurchases, snapshotEntryOf(p.Product, p.Quantity, p.TotalAmount.String(), p.CreatedAt, cur))
	}
	return snap, stats, nil
}

func snapshotEntryOf(p *model.Product, qty int, amount string, at time.Time, cur string) snapshotEntry {
	return snapshotEntry{
		Product:  productName(p),
		Quantity: qty,
		Amount:   currency.FormatString(amount, cur),
		Date:     at.UTC().Format(dto.Date),
	}
}

func buildPrompt(snap *businessSnapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("insight: encode snapshot: %w", err)
	}

	var b strings.Builder
	business := snap.Business
	if business == "" {
		business = "a pub"
	}
	fmt.Fprintf(&b, "As a business analyst for %s, analyze the following business data and provide actionable insights:\n\n", business)
	b.Write(data)
	fmt.Fprintf(&b, "\n\nFocus on %s analysis and provide:\n", snap.Focus)
	b.WriteString("1. Key observations\n2. Specific recommendations\n3. Trends you notice\n4. Action items for improvement\n")
	if snap.DateRange != nil && (snap.DateRange.From != "" || snap.DateRange.To != "") {
		fmt.Fprintf(&b, "\nRestrict the analysis to the period from %s to %s.\n",
			orOpen(snap.DateRange.From), orOpen(snap.DateRange.To))
	}
	if len(snap.FocusProducts) > 0 {
		fmt.Fprintf(&b, "\nPay particular attention to: %s.\n", strings.Join(snap.FocusProducts, ", "))
	}
	b.WriteString("\nKeep the response concise and practical for a pub owner.")
	return b.String(), nil
}

func orOpen(s string) string {
	if s == "" {
		return "(open)"
	}
	return s
}

func renderMarkdown(text string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		log.Debug().Err(err).Msg("insight markdown render failed")
		return ""
	}
	return buf.String()
}
