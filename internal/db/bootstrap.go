package db

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/internal/models"
)

// EnsureBaseline creates the base roles and, when BOOTSTRAP_ADMIN_EMAIL and
// BOOTSTRAP_ADMIN_PASSWORD are set, an initial admin account. Idempotent:
// running it twice never duplicates rows or overwrites an existing user.
func EnsureBaseline(db *gorm.DB) error {
	baseRoles := []models.Role{
		{Name: "admin"},
		{Name: "user"},
	}
	for _, r := range baseRoles {
		var existing models.Role
		if err := db.Where("name = ?", r.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&r).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	email := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	var admin models.Role
	if err := db.Where("name = ?", "admin").First(&admin).Error; err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Email:    email,
		Password: string(hash),
		RoleID:   admin.ID,
	}).Error
}
