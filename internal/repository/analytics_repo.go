package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesTotals aggregates the whole sales ledger of one owner.
type SalesTotals struct {
	Revenue   decimal.Decimal
	ItemsSold int64
}

// TopSellerRow is one product's aggregated sales.
type TopSellerRow struct {
	ProductID int64
	UnitsSold int64
	Revenue   decimal.Decimal
}

// DailyTotalRow is one UTC day of ledger activity.
type DailyTotalRow struct {
	Day       time.Time
	Revenue   decimal.Decimal
	Spend     decimal.Decimal
	ItemsSold int64
}

// AnalyticsRepository runs the read-only aggregate queries behind the
// dashboard. None of them take locks.
type AnalyticsRepository interface {
	SalesTotals(ctx context.Context, owner uuid.UUID) (SalesTotals, error)
	PurchaseSpend(ctx context.Context, owner uuid.UUID) (decimal.Decimal, error)
	CountLowStock(ctx context.Context, owner uuid.UUID) (int64, error)
	// TopSellers orders by units sold, then revenue, then product id.
	TopSellers(ctx context.Context, owner uuid.UUID, limit int) ([]TopSellerRow, error)
	// DailyTotals covers [from, to) and returns only days with activity,
	// oldest first.
	DailyTotals(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]DailyTotalRow, error)
}

type analyticsRepo struct{ db *gorm.DB }

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository { return &analyticsRepo{db: db} }

func (r *analyticsRepo) SalesTotals(ctx context.Context, owner uuid.UUID) (SalesTotals, error) {
	var out SalesTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0) AS revenue,
		       COALESCE(SUM(quantity), 0)     AS items_sold
		FROM sales
		WHERE user_id = ?`, owner).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) PurchaseSpend(ctx context.Context, owner uuid.UUID) (decimal.Decimal, error) {
	var out struct{ Spend decimal.Decimal }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0) AS spend
		FROM purchases
		WHERE user_id = ?`, owner).Scan(&out).Error
	return out.Spend, err
}

func (r *analyticsRepo) CountLowStock(ctx context.Context, owner uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("products").
		Where("user_id = ? AND current_stock <= min_stock_level", owner).
		Count(&n).Error
	return n, err
}

func (r *analyticsRepo) TopSellers(ctx context.Context, owner uuid.UUID, limit int) ([]TopSellerRow, error) {
	var rows []TopSellerRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.product_id           AS product_id,
		       SUM(s.quantity)        AS units_sold,
		       SUM(s.total_amount)    AS revenue
		FROM sales s
		JOIN products p ON p.id = s.product_id AND p.user_id = s.user_id
		WHERE s.user_id = ?
		GROUP BY s.product_id
		ORDER BY units_sold DESC, revenue DESC, s.product_id ASC
		LIMIT ?`, owner, limit).Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepo) DailyTotals(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]DailyTotalRow, error) {
	var rows []DailyTotalRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT day,
		       SUM(revenue)    AS revenue,
		       SUM(spend)      AS spend,
		       SUM(items_sold) AS items_sold
		FROM (
			SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
			       total_amount AS revenue, 0 AS spend, quantity AS items_sold
			FROM sales
			WHERE user_id = ? AND created_at >= ? AND created_at < ?
			UNION ALL
			SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
			       0 AS revenue, total_amount AS spend, 0 AS items_sold
			FROM purchases
			WHERE user_id = ? AND created_at >= ? AND created_at < ?
		) ledger
		GROUP BY day
		ORDER BY day`, owner, from, to, owner, from, to).Scan(&rows).Error
	return rows, err
}
