package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/repository"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory store ──────────────────────────────────────────────────────────
// One store backs every stub repository so ledger writes and analytics reads
// see the same rows, the way they would through Postgres.

type memStore struct {
	mu        sync.Mutex
	products  map[int64]*model.Product
	purchases []model.Purchase
	sales     []model.Sale
	nextID    int64
	clock     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[int64]*model.Product),
		clock:    time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so creation order is observable.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) owned(owner uuid.UUID, id int64) (*model.Product, bool) {
	p, ok := s.products[id]
	if !ok || p.UserID != owner {
		return nil, false
	}
	return p, true
}

// ── Product repository ───────────────────────────────────────────────────────

type stubProductRepo struct{ *memStore }

var _ repository.ProductRepository = stubProductRepo{}

func (r stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.id()
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r stubProductRepo) FindByID(_ context.Context, owner uuid.UUID, id int64) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.owned(owner, id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r stubProductRepo) FindByIDs(_ context.Context, owner uuid.UUID, ids []int64) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.owned(owner, id); ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r stubProductRepo) List(_ context.Context, owner uuid.UUID) ([]model.Product, error) {
	return r.filter(owner, func(model.Product) bool { return true }), nil
}

func (r stubProductRepo) ListLowStock(_ context.Context, owner uuid.UUID) ([]model.Product, error) {
	return r.filter(owner, model.Product.IsLowStock), nil
}

func (r stubProductRepo) filter(owner uuid.UUID, keep func(model.Product) bool) []model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Product{}
	for _, p := range r.products {
		if p.UserID == owner && keep(*p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r stubProductRepo) Update(_ context.Context, owner uuid.UUID, id int64, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.owned(owner, id)
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "category":
			p.Category = v.(string)
		case "buying_price":
			p.BuyingPrice = v.(decimal.Decimal)
		case "selling_price":
			p.SellingPrice = v.(decimal.Decimal)
		case "current_stock":
			p.CurrentStock = v.(int)
		case "min_stock_level":
			p.MinStockLevel = v.(int)
		}
	}
	p.UpdatedAt = r.tick()
	return nil
}

func (r stubProductRepo) Delete(_ context.Context, owner uuid.UUID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owned(owner, id); !ok {
		return gorm.ErrRecordNotFound
	}
	if r.referenced(id) {
		return repository.ErrForeignKeyViolation
	}
	delete(r.products, id)
	return nil
}

func (r stubProductRepo) HasLedgerHistory(_ context.Context, owner uuid.UUID, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.referenced(id), nil
}

func (s *memStore) referenced(id int64) bool {
	for _, p := range s.purchases {
		if p.ProductID == id {
			return true
		}
	}
	for _, sale := range s.sales {
		if sale.ProductID == id {
			return true
		}
	}
	return false
}

func (r stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, owner uuid.UUID, id int64) (*model.Product, error) {
	return r.FindByID(context.Background(), owner, id)
}

func (r stubProductRepo) UpdateStockTx(_ *gorm.DB, id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.CurrentStock+delta < 0 {
		return repository.ErrCheckViolation
	}
	p.CurrentStock += delta
	p.UpdatedAt = r.tick()
	return nil
}

func (r stubProductRepo) DB() *gorm.DB { return nil }

// ── Ledger repositories ──────────────────────────────────────────────────────

type stubPurchaseRepo struct{ *memStore }

var _ repository.PurchaseRepository = stubPurchaseRepo{}

func (r stubPurchaseRepo) CreateTx(_ *gorm.DB, p *model.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.id()
	p.CreatedAt = r.tick()
	r.purchases = append(r.purchases, *p)
	return nil
}

func (r stubPurchaseRepo) List(_ context.Context, owner uuid.UUID) ([]model.Purchase, error) {
	return r.Recent(context.Background(), owner, len(r.purchases))
}

func (r stubPurchaseRepo) Recent(_ context.Context, owner uuid.UUID, limit int) ([]model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Purchase{}
	for i := len(r.purchases) - 1; i >= 0 && len(out) < limit; i-- {
		p := r.purchases[i]
		prod, ok := r.owned(owner, p.ProductID)
		if p.UserID != owner || !ok {
			continue
		}
		cp := *prod
		p.Product = &cp
		out = append(out, p)
	}
	return out, nil
}

type stubSaleRepo struct{ *memStore }

var _ repository.SaleRepository = stubSaleRepo{}

func (r stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.id()
	s.CreatedAt = r.tick()
	r.sales = append(r.sales, *s)
	return nil
}

func (r stubSaleRepo) List(_ context.Context, owner uuid.UUID) ([]model.Sale, error) {
	return r.Recent(context.Background(), owner, len(r.sales))
}

func (r stubSaleRepo) Recent(_ context.Context, owner uuid.UUID, limit int) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Sale{}
	for i := len(r.sales) - 1; i >= 0 && len(out) < limit; i-- {
		s := r.sales[i]
		prod, ok := r.owned(owner, s.ProductID)
		if s.UserID != owner || !ok {
			continue
		}
		cp := *prod
		s.Product = &cp
		out = append(out, s)
	}
	return out, nil
}

// ── Analytics repository ─────────────────────────────────────────────────────

type stubAnalyticsRepo struct{ *memStore }

var _ repository.AnalyticsRepository = stubAnalyticsRepo{}

func (r stubAnalyticsRepo) SalesTotals(_ context.Context, owner uuid.UUID) (repository.SalesTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t repository.SalesTotals
	for _, s := range r.sales {
		if s.UserID == owner {
			t.Revenue = t.Revenue.Add(s.TotalAmount)
			t.ItemsSold += int64(s.Quantity)
		}
	}
	return t, nil
}

func (r stubAnalyticsRepo) PurchaseSpend(_ context.Context, owner uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	spend := decimal.Zero
	for _, p := range r.purchases {
		if p.UserID == owner {
			spend = spend.Add(p.TotalAmount)
		}
	}
	return spend, nil
}

func (r stubAnalyticsRepo) CountLowStock(_ context.Context, owner uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.products {
		if p.UserID == owner && p.IsLowStock() {
			n++
		}
	}
	return n, nil
}

func (r stubAnalyticsRepo) TopSellers(_ context.Context, owner uuid.UUID, limit int) ([]repository.TopSellerRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agg := map[int64]*repository.TopSellerRow{}
	for _, s := range r.sales {
		if s.UserID != owner {
			continue
		}
		if _, ok := r.owned(owner, s.ProductID); !ok {
			continue
		}
		row, ok := agg[s.ProductID]
		if !ok {
			row = &repository.TopSellerRow{ProductID: s.ProductID}
			agg[s.ProductID] = row
		}
		row.UnitsSold += int64(s.Quantity)
		row.Revenue = row.Revenue.Add(s.TotalAmount)
	}
	rows := make([]repository.TopSellerRow, 0, len(agg))
	for _, row := range agg {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.UnitsSold != b.UnitsSold {
			return a.UnitsSold > b.UnitsSold
		}
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ProductID < b.ProductID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r stubAnalyticsRepo) DailyTotals(_ context.Context, owner uuid.UUID, from, to time.Time) ([]repository.DailyTotalRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agg := map[time.Time]*repository.DailyTotalRow{}
	row := func(at time.Time) *repository.DailyTotalRow {
		u := at.UTC()
		day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		if agg[day] == nil {
			agg[day] = &repository.DailyTotalRow{Day: day}
		}
		return agg[day]
	}
	inWindow := func(at time.Time) bool { return !at.Before(from) && at.Before(to) }
	for _, s := range r.sales {
		if s.UserID == owner && inWindow(s.CreatedAt) {
			d := row(s.CreatedAt)
			d.Revenue = d.Revenue.Add(s.TotalAmount)
			d.ItemsSold += int64(s.Quantity)
		}
	}
	for _, p := range r.purchases {
		if p.UserID == owner && inWindow(p.CreatedAt) {
			d := row(p.CreatedAt)
			d.Spend = d.Spend.Add(p.TotalAmount)
		}
	}
	rows := make([]repository.DailyTotalRow, 0, len(agg))
	for _, d := range agg {
		rows = append(rows, *d)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day.Before(rows[j].Day) })
	return rows, nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	store     *memStore
	products  service.ProductService
	ledger    service.LedgerService
	analytics service.AnalyticsService
	owner     uuid.UUID
}

func newFixture() *fixture {
	store := newMemStore()
	productRepo := stubProductRepo{store}
	ledger := service.NewLedgerService(productRepo, stubPurchaseRepo{store}, stubSaleRepo{store})
	return &fixture{
		store:     store,
		products:  service.NewProductService(productRepo),
		ledger:    ledger,
		analytics: service.NewAnalyticsService(stubAnalyticsRepo{store}, productRepo, ledger),
		owner:     uuid.New(),
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func (f *fixture) createProduct(t *testing.T, name, buy, sell string, stock, min int) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), f.owner, dto.CreateProductRequest{
		Name:          name,
		Category:      "Beer",
		BuyingPrice:   dec(buy),
		SellingPrice:  dec(sell),
		CurrentStock:  intPtr(stock),
		MinStockLevel: intPtr(min),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) purchase(t *testing.T, productID int64, qty int, unit string) *dto.PurchaseResponse {
	t.Helper()
	u := decimal.RequireFromString(unit)
	total := u.Mul(decimal.NewFromInt(int64(qty)))
	p, err := f.ledger.RecordPurchase(context.Background(), f.owner, dto.RecordPurchaseRequest{
		ProductID: productID, Quantity: qty, UnitPrice: &u, TotalAmount: &total,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) sell(productID int64, qty int, unit string) (*dto.SaleResponse, error) {
	u := decimal.RequireFromString(unit)
	total := u.Mul(decimal.NewFromInt(int64(qty)))
	return f.ledger.RecordSale(context.Background(), f.owner, dto.RecordSaleRequest{
		ProductID: productID, Quantity: qty, UnitPrice: &u, TotalAmount: &total,
	})
}
