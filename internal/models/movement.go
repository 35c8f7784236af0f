package models

import "time"

// StockMovement is the append-only trail of every ledger adjustment, written
// inside the same transaction as the stock change itself.
type StockMovement struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"not null;index"`
	Delta     int    `gorm:"not null"` // signed; negative = consumed
	Resulting int    `gorm:"not null"` // stock after applying Delta
	Reason    string `gorm:"size:50;not null"`
	CreatedAt time.Time
}
