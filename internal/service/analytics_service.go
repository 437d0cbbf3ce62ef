package service

import (
	"context"
	"sort"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultTopProductsLimit = 5
	DefaultRecentLimit      = 10
	DefaultRevenueDays      = 7
)

// AnalyticsService computes the dashboard aggregates on every call.
// Nothing is cached.
type AnalyticsService interface {
	DashboardStats(ctx context.Context, owner uuid.UUID) (*dto.DashboardStatsResponse, error)
	TopSellingProducts(ctx context.Context, owner uuid.UUID, limit int) ([]dto.TopProductResponse, error)
	RecentTransactions(ctx context.Context, owner uuid.UUID, limit int) ([]dto.RecentTransactionResponse, error)
	LowStockProducts(ctx context.Context, owner uuid.UUID) ([]dto.ProductResponse, error)
	// RevenueSeries returns one entry per UTC day for the days ending on
	// until, oldest first. Days without activity are zero.
	RevenueSeries(ctx context.Context, owner uuid.UUID, days int, until time.Time) ([]dto.DailyRevenueResponse, error)
}

type analyticsService struct {
	repo     repository.AnalyticsRepository
	products repository.ProductRepository
	ledger   LedgerService
}

func NewAnalyticsService(
	repo repository.AnalyticsRepository,
	products repository.ProductRepository,
	ledger LedgerService,
) AnalyticsService {
	return &analyticsService{repo: repo, products: products, ledger: ledger}
}

// DashboardStats uses the cash-basis definition of profit: sale revenue
// minus everything spent on purchases, regardless of what is still on hand.
func (s *analyticsService) DashboardStats(ctx context.Context, owner uuid.UUID) (*dto.DashboardStatsResponse, error) {
	sales, err := s.repo.SalesTotals(ctx, owner)
	if err != nil {
		return nil, err
	}
	spend, err := s.repo.PurchaseSpend(ctx, owner)
	if err != nil {
		return nil, err
	}
	low, err := s.repo.CountLowStock(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardStatsResponse{
		TotalRevenue:  dto.Money(sales.Revenue),
		NetProfit:     dto.Money(sales.Revenue.Sub(spend)),
		ItemsSold:     sales.ItemsSold,
		LowStockItems: low,
	}, nil
}

func (s *analyticsService) TopSellingProducts(ctx context.Context, owner uuid.UUID, limit int) ([]dto.TopProductResponse, error) {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}
	rows, err := s.repo.TopSellers(ctx, owner, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ProductID
	}
	products, err := s.products.FindByIDs(ctx, owner, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	resp := make([]dto.TopProductResponse, 0, len(rows))
	for _, r := range rows {
		p, ok := byID[r.ProductID]
		if !ok {
			continue
		}
		resp = append(resp, dto.TopProductResponse{
			Product:   productToResponse(p),
			UnitsSold: r.UnitsSold,
			Revenue:   dto.Money(r.Revenue),
		})
	}
	return resp, nil
}

// RecentTransactions fetches limit rows of each kind independently and then
// merges them, so an older row of one kind can appear only if the other kind
// did not fill the window.
func (s *analyticsService) RecentTransactions(ctx context.Context, owner uuid.UUID, limit int) ([]dto.RecentTransactionResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	sales, err := s.ledger.RecentSales(ctx, owner, limit)
	if err != nil {
		return nil, err
	}
	purchases, err := s.ledger.RecentPurchases(ctx, owner, limit)
	if err != nil {
		return nil, err
	}
	return mergeRecent(sales, purchases, limit), nil
}

func (s *analyticsService) LowStockProducts(ctx context.Context, owner uuid.UUID) ([]dto.ProductResponse, error) {
	products, err := s.products.ListLowStock(ctx, owner)
	if err != nil {
		return nil, err
	}
	return productsToResponse(products), nil
}

func (s *analyticsService) RevenueSeries(ctx context.Context, owner uuid.UUID, days int, until time.Time) ([]dto.DailyRevenueResponse, error) {
	if days <= 0 {
		days = DefaultRevenueDays
	}
	u := until.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1-days)
	rows, err := s.repo.DailyTotals(ctx, owner, start, start.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	return dailySeries(rows, start, days), nil
}

func dailySeries(rows []repository.DailyTotalRow, start time.Time, days int) []dto.DailyRevenueResponse {
	byDay := make(map[string]repository.DailyTotalRow, len(rows))
	for _, r := range rows {
		byDay[r.Day.UTC().Format(dto.Date)] = r
	}
	out := make([]dto.DailyRevenueResponse, days)
	for i := range out {
		day := start.AddDate(0, 0, i).Format(dto.Date)
		r := byDay[day]
		out[i] = dto.DailyRevenueResponse{
			Date:      day,
			Revenue:   dto.Money(r.Revenue),
			Purchases: dto.Money(r.Spend),
			Profit:    dto.Money(r.Revenue.Sub(r.Spend)),
			ItemsSold: r.ItemsSold,
		}
	}
	return out
}

// mergeRecent tags and interleaves both feeds by createdAt descending.
// The sort is stable with sales first, so on equal timestamps a sale is
// listed before a purchase.
func mergeRecent(sales []model.Sale, purchases []model.Purchase, limit int) []dto.RecentTransactionResponse {
	type entry struct {
		at  time.Time
		row dto.RecentTransactionResponse
	}
	entries := make([]entry, 0, len(sales)+len(purchases))

	for _, sale := range sales {
		entries = append(entries, entry{at: sale.CreatedAt, row: dto.RecentTransactionResponse{
			ID:          sale.ID,
			ProductName: productName(sale.Product),
			Type:        dto.TransactionSale,
			Quantity:    sale.Quantity,
			Amount:      dto.Money(sale.TotalAmount),
			CreatedAt:   sale.CreatedAt.UTC().Format(dto.Timestamp),
		}})
	}
	for _, p := range purchases {
		entries = append(entries, entry{at: p.CreatedAt, row: dto.RecentTransactionResponse{
			ID:          p.ID,
			ProductName: productName(p.Product),
			Type:        dto.TransactionPurchase,
			Quantity:    p.Quantity,
			Amount:      dto.Money(p.TotalAmount),
			CreatedAt:   p.CreatedAt.UTC().Format(dto.Timestamp),
		}})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].at.After(entries[j].at) })

	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]dto.RecentTransactionResponse, len(entries))
	for i, e := range entries {
		out[i] = e.row
	}
	return out
}

func productName(p *model.Product) string {
	if p == nil {
		return ""
	}
	return p.Name
}
