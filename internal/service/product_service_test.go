package service_test

import (
	"context"
	"testing"

	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_CreateAndGet_RoundTrip(t *testing.T) {
	f := newFixture()
	created := f.createProduct(t, "White Cap", "130", "170", 48, 12)

	got, err := f.products.Get(context.Background(), f.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "White Cap", got.Name)
	assert.Equal(t, "130.00", got.BuyingPrice)
	assert.Equal(t, "170.00", got.SellingPrice)
	assert.Equal(t, 48, got.CurrentStock)
	assert.Equal(t, 12, got.MinStockLevel)
	assert.Equal(t, f.owner.String(), got.UserID)
}

func TestProduct_Create_DefaultsStockAndThreshold(t *testing.T) {
	f := newFixture()
	p, err := f.products.Create(context.Background(), f.owner, dto.CreateProductRequest{
		Name: "Soda", Category: "Soft drinks", BuyingPrice: dec("40"), SellingPrice: dec("60"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, p.CurrentStock)
	assert.Equal(t, model.DefaultMinStockLevel, p.MinStockLevel)
}

func TestProduct_Create_ExplicitZeroThresholdKept(t *testing.T) {
	f := newFixture()
	p := f.createProduct(t, "Ice", "0", "0", 0, 0)
	assert.Equal(t, 0, p.MinStockLevel)
}

func TestProduct_OtherOwner_NotFound(t *testing.T) {
	f := newFixture()
	p := f.createProduct(t, "Tusker", "120", "150", 10, 5)

	_, err := f.products.Get(context.Background(), uuid.New(), p.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	list, err := f.products.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProduct_List_NewestFirst(t *testing.T) {
	f := newFixture()
	a := f.createProduct(t, "A", "1", "2", 0, 0)
	b := f.createProduct(t, "B", "1", "2", 0, 0)

	list, err := f.products.List(context.Background(), f.owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}

func TestProduct_Update_Partial(t *testing.T) {
	f := newFixture()
	p := f.createProduct(t, "Tusker", "120", "150", 10, 5)

	name := "Tusker Malt"
	got, err := f.products.Update(context.Background(), f.owner, p.ID, dto.UpdateProductRequest{
		Name:         &name,
		SellingPrice: dec("160.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tusker Malt", got.Name)
	assert.Equal(t, "160.50", got.SellingPrice)
	assert.Equal(t, "120.00", got.BuyingPrice)
	assert.Equal(t, 10, got.CurrentStock)
	assert.Equal(t, "Beer", got.Category)
}

func TestProduct_Update_EmptyReturnsCurrent(t *testing.T) {
	f := newFixture()
	p := f.createProduct(t, "Tusker", "120", "150", 10, 5)

	got, err := f.products.Update(context.Background(), f.owner, p.ID, dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Equal(t, p.UpdatedAt, got.UpdatedAt)

	_, err = f.products.Update(context.Background(), f.owner, 404, dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestProduct_Update_Missing_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.products.Update(context.Background(), f.owner, 7, dto.UpdateProductRequest{CurrentStock: intPtr(3)})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestProduct_Delete(t *testing.T) {
	f := newFixture()
	p := f.createProduct(t, "Tusker", "120", "150", 0, 5)

	require.NoError(t, f.products.Delete(context.Background(), f.owner, p.ID))
	_, err := f.products.Get(context.Background(), f.owner, p.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	assert.ErrorIs(t, f.products.Delete(context.Background(), f.owner, p.ID), service.ErrProductNotFound)
}

func TestProduct_Delete_WithHistory_Conflict(t *testing.T) {
	f := newFixture()
	p := f.createProduct(t, "Tusker", "120", "150", 0, 5)
	f.purchase(t, p.ID, 6, "120")

	err := f.products.Delete(context.Background(), f.owner, p.ID)
	assert.ErrorIs(t, err, service.ErrProductHasHistory)

	_, err = f.products.Get(context.Background(), f.owner, p.ID)
	assert.NoError(t, err)
}

func TestProduct_Profitability(t *testing.T) {
	f := newFixture()
	f.createProduct(t, "Tusker", "120", "150", 10, 5)
	f.createProduct(t, "Promo", "100", "80", 5, 1)

	report, err := f.products.Profitability(context.Background(), f.owner)
	require.NoError(t, err)
	require.Len(t, report.Products, 2)

	byName := map[string]dto.ProductProfitability{}
	for _, p := range report.Products {
		byName[p.Name] = p
	}
	assert.Equal(t, "30.00", byName["Tusker"].UnitProfit)
	assert.Equal(t, "25.00", byName["Tusker"].ProfitMargin)
	assert.Equal(t, "300.00", byName["Tusker"].PotentialProfit)
	assert.False(t, byName["Tusker"].NegativeMargin)

	assert.Equal(t, "-20.00", byName["Promo"].UnitProfit)
	assert.True(t, byName["Promo"].NegativeMargin)

	assert.Equal(t, "1700.00", report.TotalInventoryValue)
	assert.Equal(t, "200.00", report.TotalPotentialProfit)
	assert.Equal(t, "2.50", report.AverageMargin)
}
