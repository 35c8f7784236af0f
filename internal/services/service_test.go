package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Brand{}, &models.Category{}, &models.Supplier{}, &models.Customer{},
		&models.Product{}, &models.StockMovement{},
		&models.Sale{}, &models.SaleLine{},
		&models.Purchase{}, &models.PurchaseLine{},
	))
	return db
}

type fixtures struct {
	Brand    models.Brand
	Category models.Category
	Supplier models.Supplier
	Customer models.Customer
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	f := fixtures{
		Brand:    models.Brand{Name: "Colgate", Active: true},
		Category: models.Category{Name: "Higiene", Active: true},
		Supplier: models.Supplier{CompanyName: "Distribuidora Norte", Phone: "22110033"},
		Customer: models.Customer{FirstName: "María", LastName: "González"},
	}
	require.NoError(t, db.Create(&f.Brand).Error)
	require.NoError(t, db.Create(&f.Category).Error)
	require.NoError(t, db.Create(&f.Supplier).Error)
	require.NoError(t, db.Create(&f.Customer).Error)
	return f
}

func seedProduct(t *testing.T, db *gorm.DB, f fixtures, name string, stock int, price string) models.Product {
	t.Helper()
	p := models.Product{
		Name:       name,
		Stock:      stock,
		Price:      mustDecimal(t, price),
		BrandID:    f.Brand.ID,
		CategoryID: f.Category.ID,
		SupplierID: f.Supplier.ID,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedSale(t *testing.T, db *gorm.DB, customerID uint) models.Sale {
	t.Helper()
	s := models.Sale{Reference: uuid.NewString(), Date: time.Now(), CustomerID: customerID, Total: decimal.Zero}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedPurchase(t *testing.T, db *gorm.DB, supplierID uint) models.Purchase {
	t.Helper()
	p := models.Purchase{Reference: uuid.NewString(), Date: time.Now(), SupplierID: supplierID, Subtotal: decimal.Zero, Total: decimal.Zero}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, mustDecimal(t, want).Equal(got), "want %s, got %s", want, got)
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}
