package models

import "time"

// Customer of the store. Four name fields because second last names are the
// norm for the customer base; only FirstName and LastName are required.
type Customer struct {
	ID             uint   `gorm:"primaryKey"`
	FirstName      string `gorm:"size:50;not null"`
	MiddleName     string `gorm:"size:50"`
	LastName       string `gorm:"size:50;not null"`
	SecondLastName string `gorm:"size:50"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
