package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMinStockLevel applies when a product is created without a threshold.
const DefaultMinStockLevel = 10

// Product is a catalog entry owned by exactly one user.
// CurrentStock is only moved by direct edits and by ledger entries.
type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"not null"`
	Category      string          `gorm:"not null"`
	BuyingPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CurrentStock  int             `gorm:"not null;default:0"`
	MinStockLevel int             `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time
}

// IsLowStock reports whether the product sits at or below its threshold.
func (p Product) IsLowStock() bool { return p.CurrentStock <= p.MinStockLevel }
