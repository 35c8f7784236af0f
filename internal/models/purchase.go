package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase parent transaction. Subtotal and Total are both derived and carry
// the same value for now (no tax or discount modeling).
type Purchase struct {
	ID         uint            `gorm:"primaryKey"`
	Reference  string          `gorm:"size:36;uniqueIndex"`
	Date       time.Time       `gorm:"not null"`
	SupplierID uint            `gorm:"not null;index"`
	Supplier   Supplier        `gorm:"foreignKey:SupplierID"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Lines      []PurchaseLine  `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseLine replenishes product stock. At most one line per (purchase, product) pair.
type PurchaseLine struct {
	ID         uint            `gorm:"primaryKey"`
	PurchaseID uint            `gorm:"not null;index:idx_purchase_product,unique,priority:1"`
	ProductID  uint            `gorm:"not null;index:idx_purchase_product,unique,priority:2"`
	Product    Product         `gorm:"foreignKey:ProductID"`
	Quantity   int             `gorm:"not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
