package infra

import (
	"fmt"

	"github.com/offset122/PubInventoryTracker/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx and brings the schema
// up to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and then applies the
// constraints AutoMigrate cannot express. Safe to run repeatedly; the
// integration tests call it directly.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Purchase{},
		&model.Sale{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements; each is guarded by an
// existence check so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_current_stock') THEN
		    ALTER TABLE products ADD CONSTRAINT chk_products_current_stock CHECK (current_stock >= 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_min_stock_level') THEN
		    ALTER TABLE products ADD CONSTRAINT chk_products_min_stock_level CHECK (min_stock_level >= 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_purchases_quantity') THEN
		    ALTER TABLE purchases ADD CONSTRAINT chk_purchases_quantity CHECK (quantity > 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_quantity') THEN
		    ALTER TABLE sales ADD CONSTRAINT chk_sales_quantity CHECK (quantity > 0);
		  END IF;
		END $$`,
		// dashboard low-stock count
		`CREATE INDEX IF NOT EXISTS idx_products_low_stock
		    ON products (user_id) WHERE current_stock <= min_stock_level`,
		`CREATE INDEX IF NOT EXISTS idx_sales_user_created
		    ON sales (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_user_created
		    ON purchases (user_id, created_at DESC)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
