package models

import "time"

// Brand and Category are deactivated rather than deleted once products
// reference them; Active=false hides them from new product forms.
type Brand struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;uniqueIndex"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;uniqueIndex"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier phone numbers are local 8-digit numbers.
type Supplier struct {
	ID          uint   `gorm:"primaryKey"`
	CompanyName string `gorm:"size:100;not null"`
	Phone       string `gorm:"size:8;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
