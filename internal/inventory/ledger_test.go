package inventory

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/internal/models"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Brand{}, &models.Category{}, &models.Supplier{},
		&models.Product{}, &models.StockMovement{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) models.Product {
	t.Helper()
	brand := models.Brand{Name: "Acme", Active: true}
	require.NoError(t, db.Create(&brand).Error)
	category := models.Category{Name: "General", Active: true}
	require.NoError(t, db.Create(&category).Error)
	supplier := models.Supplier{CompanyName: "Distribuidora Sur", Phone: "22334455"}
	require.NoError(t, db.Create(&supplier).Error)
	p := models.Product{
		Name:       "Jabón líquido",
		Stock:      stock,
		Price:      decimal.NewFromFloat(10.50),
		BrandID:    brand.ID,
		CategoryID: category.ID,
		SupplierID: supplier.ID,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestApplyConsumeAndReplenish(t *testing.T) {
	db := setupLedgerDB(t)
	p := seedProduct(t, db, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		updated, err := Apply(tx, p.ID, -4, "sale")
		require.NoError(t, err)
		assert.Equal(t, 6, updated.Stock)
		return nil
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		updated, err := Apply(tx, p.ID, 7, "purchase")
		require.NoError(t, err)
		assert.Equal(t, 13, updated.Stock)
		return nil
	})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, 13, reloaded.Stock)

	var movements []models.StockMovement
	require.NoError(t, db.Order("id asc").Find(&movements).Error)
	require.Len(t, movements, 2)
	assert.Equal(t, -4, movements[0].Delta)
	assert.Equal(t, 6, movements[0].Resulting)
	assert.Equal(t, "sale", movements[0].Reason)
	assert.Equal(t, 7, movements[1].Delta)
	assert.Equal(t, 13, movements[1].Resulting)
}

func TestApplyRejectsUnderflow(t *testing.T) {
	db := setupLedgerDB(t)
	p := seedProduct(t, db, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := Apply(tx, p.ID, -6, "sale")
		return err
	})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, p.ID, insufficient.ProductID)
	assert.Equal(t, 5, insufficient.Available)
	assert.Equal(t, 6, insufficient.Requested)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, 5, reloaded.Stock)

	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	assert.Zero(t, count)
}

func TestApplyRejectsOverflow(t *testing.T) {
	db := setupLedgerDB(t)
	p := seedProduct(t, db, models.MaxStock-1)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := Apply(tx, p.ID, 2, "purchase")
		return err
	})
	var limit *StockLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, models.MaxStock+1, limit.Resulting)
	assert.Equal(t, models.MaxStock, limit.Limit)
}

func TestApplyZeroDeltaLeavesNoTrail(t *testing.T) {
	db := setupLedgerDB(t)
	p := seedProduct(t, db, 3)

	err := db.Transaction(func(tx *gorm.DB) error {
		updated, err := Apply(tx, p.ID, 0, "noop")
		require.NoError(t, err)
		assert.Equal(t, 3, updated.Stock)
		return nil
	})
	require.NoError(t, err)

	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	assert.Zero(t, count)
}

func TestApplyUnknownProduct(t *testing.T) {
	db := setupLedgerDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := Apply(tx, 999, -1, "sale")
		return err
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReverseMapsUnderflowToReversalError(t *testing.T) {
	db := setupLedgerDB(t)
	p := seedProduct(t, db, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := Reverse(tx, p.ID, -10, "purchase_delete")
		return err
	})
	var reversal *StockReversalError
	require.ErrorAs(t, err, &reversal)
	assert.Equal(t, 2, reversal.Available)
	assert.Equal(t, 10, reversal.Requested)
}
