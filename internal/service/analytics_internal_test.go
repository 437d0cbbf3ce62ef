package service

import (
	"testing"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRecent_SaleBeforePurchaseOnEqualTimestamp(t *testing.T) {
	at := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	beer := &model.Product{Name: "Tusker"}
	sales := []model.Sale{{ID: 1, Quantity: 2, TotalAmount: decimal.NewFromInt(300), CreatedAt: at, Product: beer}}
	purchases := []model.Purchase{{ID: 1, Quantity: 24, TotalAmount: decimal.NewFromInt(2880), CreatedAt: at, Product: beer}}

	out := mergeRecent(sales, purchases, 10)
	require.Len(t, out, 2)
	assert.Equal(t, dto.TransactionSale, out[0].Type)
	assert.Equal(t, dto.TransactionPurchase, out[1].Type)
	assert.Equal(t, "2025-03-01T20:00:00.000Z", out[0].CreatedAt)
}

func TestMergeRecent_InterleavesAndTruncates(t *testing.T) {
	base := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	sales := []model.Sale{
		{ID: 10, CreatedAt: base.Add(5 * time.Minute)},
		{ID: 11, CreatedAt: base.Add(1 * time.Minute)},
	}
	purchases := []model.Purchase{
		{ID: 20, CreatedAt: base.Add(3 * time.Minute)},
		{ID: 21, CreatedAt: base},
	}

	out := mergeRecent(sales, purchases, 3)
	require.Len(t, out, 3)
	assert.Equal(t, []int64{10, 20, 11}, []int64{out[0].ID, out[1].ID, out[2].ID})
	// rows whose product did not load keep an empty name
	assert.Equal(t, "", out[0].ProductName)
}

func TestProfitability_ZeroBuyingPriceAndEmpty(t *testing.T) {
	empty := profitability(nil)
	assert.Empty(t, empty.Products)
	assert.Equal(t, "0.00", empty.AverageMargin)
	assert.Equal(t, "0.00", empty.TotalInventoryValue)

	free := profitability([]model.Product{{
		ID: 1, Name: "Water", BuyingPrice: decimal.Zero, SellingPrice: decimal.NewFromInt(50), CurrentStock: 4,
	}})
	require.Len(t, free.Products, 1)
	assert.Equal(t, "0.00", free.Products[0].ProfitMargin)
	assert.Equal(t, "200.00", free.Products[0].PotentialProfit)
	assert.Equal(t, "0.00", free.TotalInventoryValue)
}

func TestProfitability_RoundsMarginToCents(t *testing.T) {
	r := profitability([]model.Product{{
		BuyingPrice: decimal.NewFromInt(3), SellingPrice: decimal.NewFromInt(4), CurrentStock: 1,
	}})
	assert.Equal(t, "33.33", r.Products[0].ProfitMargin)
}

func TestDailySeries_PlacesRowsOnTheirDay(t *testing.T) {
	start := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)
	rows := []repository.DailyTotalRow{
		{Day: time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC), Revenue: decimal.NewFromInt(300), ItemsSold: 2},
		{Day: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Revenue: decimal.NewFromInt(150), Spend: decimal.NewFromInt(400), ItemsSold: 1},
	}

	out := dailySeries(rows, start, 4)
	require.Len(t, out, 4)
	assert.Equal(t, "2025-03-30", out[0].Date)
	assert.Equal(t, "300.00", out[0].Profit)
	assert.Equal(t, "2025-03-31", out[1].Date)
	assert.Equal(t, "0.00", out[1].Revenue)
	assert.Zero(t, out[1].ItemsSold)
	assert.Equal(t, "2025-04-01", out[2].Date)
	assert.Equal(t, "400.00", out[2].Purchases)
	assert.Equal(t, "-250.00", out[2].Profit)
	assert.Equal(t, "2025-04-02", out[3].Date)
}
