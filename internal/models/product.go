package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock bounds enforced by the inventory ledger and backed by a DB CHECK.
const (
	MinStock = 0
	MaxStock = 99999
)

// Product catalog entity. Stock is only ever mutated by the inventory ledger;
// catalog screens may edit name, description and price.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:50;not null;index"`
	Description string          `gorm:"size:200"`
	Stock       int             `gorm:"not null;default:0"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	BrandID     uint            `gorm:"not null;index"`
	Brand       Brand           `gorm:"foreignKey:BrandID"`
	CategoryID  uint            `gorm:"not null;index"`
	Category    Category        `gorm:"foreignKey:CategoryID"`
	SupplierID  uint            `gorm:"not null;index"`
	Supplier    Supplier        `gorm:"foreignKey:SupplierID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
