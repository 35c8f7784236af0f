package models

import "time"

// User & auth related models
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"unique;not null;index"`
	Password  string `gorm:"not null"` // bcrypt hash
	Name      string `gorm:"index"`
	RoleID    uint   // FK to Role
	Role      Role   `gorm:"foreignKey:RoleID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"` // admin, user
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
