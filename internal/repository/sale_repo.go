package repository

import (
	"context"

	"github.com/offset122/PubInventoryTracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRepository is append-only: there is no update or delete.
type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	List(ctx context.Context, owner uuid.UUID) ([]model.Sale, error)
	Recent(ctx context.Context, owner uuid.UUID, limit int) ([]model.Sale, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return translate(tx.Omit("Product").Create(s).Error)
}

func (r *saleRepo) List(ctx context.Context, owner uuid.UUID) ([]model.Sale, error) {
	var rows []model.Sale
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *saleRepo) Recent(ctx context.Context, owner uuid.UUID, limit int) ([]model.Sale, error) {
	var rows []model.Sale
	err := r.db.WithContext(ctx).
		InnerJoins("Product").
		Where("sales.user_id = ?", owner).
		Order("sales.created_at DESC, sales.id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
