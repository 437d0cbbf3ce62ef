package repository

import (
	"context"

	"github.com/offset122/PubInventoryTracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseRepository is append-only: there is no update or delete.
type PurchaseRepository interface {
	CreateTx(tx *gorm.DB, p *model.Purchase) error
	List(ctx context.Context, owner uuid.UUID) ([]model.Purchase, error)
	// Recent joins each row to its current product; rows whose product is
	// gone are skipped.
	Recent(ctx context.Context, owner uuid.UUID, limit int) ([]model.Purchase, error)
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) CreateTx(tx *gorm.DB, p *model.Purchase) error {
	return translate(tx.Omit("Product").Create(p).Error)
}

func (r *purchaseRepo) List(ctx context.Context, owner uuid.UUID) ([]model.Purchase, error) {
	var rows []model.Purchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *purchaseRepo) Recent(ctx context.Context, owner uuid.UUID, limit int) ([]model.Purchase, error) {
	var rows []model.Purchase
	err := r.db.WithContext(ctx).
		InnerJoins("Product").
		Where("purchases.user_id = ?", owner).
		Order("purchases.created_at DESC, purchases.id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
