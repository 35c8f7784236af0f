package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line item quantities accepted by the engines.
const (
	MinLineQuantity = 1
	MaxLineQuantity = 999999
)

// Sale parent transaction. Total is derived from the line subtotals and never
// authored directly; the line engines recompute it on every line change.
type Sale struct {
	ID         uint            `gorm:"primaryKey"`
	Reference  string          `gorm:"size:36;uniqueIndex"` // receipt reference (uuid)
	Date       time.Time       `gorm:"not null"`
	CustomerID uint            `gorm:"not null;index"`
	Customer   Customer        `gorm:"foreignKey:CustomerID"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Lines      []SaleLine      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaleLine consumes product stock. At most one line per (sale, product) pair.
type SaleLine struct {
	ID        uint            `gorm:"primaryKey"`
	SaleID    uint            `gorm:"not null;index:idx_sale_product,unique,priority:1"`
	ProductID uint            `gorm:"not null;index:idx_sale_product,unique,priority:2"`
	Product   Product         `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"` // round(quantity*unit_price, 2)
	CreatedAt time.Time
	UpdatedAt time.Time
}
