//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/infra"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("pub_repo_test"),
		tcPostgres.WithUsername("pub"),
		tcPostgres.WithPassword("pub"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	// migrations are idempotent
	require.NoError(t, infra.RunMigrations(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) (uuid.UUID, *model.Product) {
	t.Helper()
	ctx := context.Background()
	user := &model.User{Email: uuid.NewString() + "@pub.test", PasswordHash: "x"}
	require.NoError(t, repository.NewUserRepository(db).Create(ctx, user))

	p := &model.Product{
		UserID: user.ID, Name: "Tusker", Category: "Beer",
		BuyingPrice: decimal.NewFromInt(120), SellingPrice: decimal.NewFromInt(150),
		CurrentStock: stock, MinStockLevel: 10,
	}
	require.NoError(t, repository.NewProductRepository(db).Create(ctx, p))
	return user.ID, p
}

func TestProductRepo_StockCheckConstraint(t *testing.T) {
	db := setupDB(t)
	_, p := seedProduct(t, db, 3)
	repo := repository.NewProductRepository(db)

	err := repo.UpdateStockTx(db, p.ID, -4)
	assert.ErrorIs(t, err, repository.ErrCheckViolation)

	require.NoError(t, repo.UpdateStockTx(db, p.ID, -3))
}

func TestProductRepo_DeleteRestrictedByLedger(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	owner, p := seedProduct(t, db, 5)
	products := repository.NewProductRepository(db)

	used, err := products.HasLedgerHistory(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, repository.NewSaleRepository(db).CreateTx(db, &model.Sale{
		ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(150),
		TotalAmount: decimal.NewFromInt(150), UserID: owner,
	}))

	used, err = products.HasLedgerHistory(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.True(t, used)
	assert.ErrorIs(t, products.Delete(ctx, owner, p.ID), repository.ErrForeignKeyViolation)
}

func TestProductRepo_OwnerScoping(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	_, p := seedProduct(t, db, 5)
	products := repository.NewProductRepository(db)

	_, err := products.FindByID(ctx, uuid.New(), p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, products.Update(ctx, uuid.New(), p.ID, map[string]interface{}{"name": "x"}), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, products.Delete(ctx, uuid.New(), p.ID), gorm.ErrRecordNotFound)
}

func TestAnalyticsRepo_Totals(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	owner, p := seedProduct(t, db, 30)
	sales := repository.NewSaleRepository(db)
	for _, qty := range []int{20, 5} {
		require.NoError(t, sales.CreateTx(db, &model.Sale{
			ProductID: p.ID, Quantity: qty, UnitPrice: decimal.NewFromInt(150),
			TotalAmount: decimal.NewFromInt(int64(qty * 150)), UserID: owner,
		}))
	}
	require.NoError(t, repository.NewPurchaseRepository(db).CreateTx(db, &model.Purchase{
		ProductID: p.ID, Quantity: 24, UnitPrice: decimal.NewFromInt(120),
		TotalAmount: decimal.NewFromInt(2880), UserID: owner,
	}))

	analytics := repository.NewAnalyticsRepository(db)
	totals, err := analytics.SalesTotals(ctx, owner)
	require.NoError(t, err)
	assert.True(t, totals.Revenue.Equal(decimal.NewFromInt(3750)))
	assert.Equal(t, int64(25), totals.ItemsSold)

	spend, err := analytics.PurchaseSpend(ctx, owner)
	require.NoError(t, err)
	assert.True(t, spend.Equal(decimal.NewFromInt(2880)))

	top, err := analytics.TopSellers(ctx, owner, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(25), top[0].UnitsSold)

	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daily, err := analytics.DailyTotals(ctx, owner, day.AddDate(0, 0, -6), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.True(t, daily[0].Day.Equal(day))
	assert.True(t, daily[0].Revenue.Equal(decimal.NewFromInt(3750)))
	assert.True(t, daily[0].Spend.Equal(decimal.NewFromInt(2880)))
	assert.Equal(t, int64(25), daily[0].ItemsSold)

	empty, err := analytics.SalesTotals(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, empty.Revenue.IsZero())
}
