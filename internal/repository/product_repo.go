package repository

import (
	"context"

	"github.com/offset122/PubInventoryTracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for the catalog.
// Every method is scoped by owner: a row that belongs to another user
// behaves exactly like a missing row (gorm.ErrRecordNotFound).
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, owner uuid.UUID, id int64) (*model.Product, error)
	FindByIDs(ctx context.Context, owner uuid.UUID, ids []int64) ([]model.Product, error)
	List(ctx context.Context, owner uuid.UUID) ([]model.Product, error)
	ListLowStock(ctx context.Context, owner uuid.UUID) ([]model.Product, error)
	// Update writes only the given columns and bumps updated_at.
	Update(ctx context.Context, owner uuid.UUID, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, owner uuid.UUID, id int64) error
	HasLedgerHistory(ctx context.Context, owner uuid.UUID, id int64) (bool, error)

	// Used inside transactions; callers must pass the tx instance
	FindByIDForUpdateTx(tx *gorm.DB, owner uuid.UUID, id int64) (*model.Product, error)
	UpdateStockTx(tx *gorm.DB, id int64, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productRepo) FindByID(ctx context.Context, owner uuid.UUID, id int64) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, owner uuid.UUID, ids []int64) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", owner, ids).
		Find(&products).Error
	return products, err
}

func (r *productRepo) List(ctx context.Context, owner uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListLowStock(ctx context.Context, owner uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND current_stock <= min_stock_level", owner).
		Order("current_stock ASC, id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, owner uuid.UUID, id int64, fields map[string]interface{}) error {
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = gorm.Expr("now()")
	}
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND user_id = ?", id, owner).
		Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, owner uuid.UUID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		Delete(&model.Product{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) HasLedgerHistory(ctx context.Context, owner uuid.UUID, id int64) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXISTS (SELECT 1 FROM purchases WHERE product_id = ? AND user_id = ?)
		    OR EXISTS (SELECT 1 FROM sales     WHERE product_id = ? AND user_id = ?)`,
		id, owner, id, owner).Scan(&found).Error
	return found, err
}

// FindByIDForUpdateTx takes a row lock on the product until tx ends, so two
// ledger writes against the same product serialize on it.
func (r *productRepo) FindByIDForUpdateTx(tx *gorm.DB, owner uuid.UUID, id int64) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, owner).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) UpdateStockTx(tx *gorm.DB, id int64, delta int) error {
	return translate(tx.Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_stock": gorm.Expr("current_stock + ?", delta),
		"updated_at":    gorm.Expr("now()"),
	}).Error)
}

func (r *productRepo) DB() *gorm.DB { return r.db }
