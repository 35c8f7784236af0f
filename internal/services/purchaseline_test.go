package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrivassol/ventas-app/internal/inventory"
	"github.com/jrivassol/ventas-app/internal/models"
)

func TestPurchaseLineCreateReplenishesStock(t *testing.T) {
	db := setupServiceDB(t)
	f := seedFixtures(t, db)
	product := seedProduct(t, db, f, "Aceite", 0, "70.00")
	purchase := seedPurchase(t, db, f.Supplier.ID)
	svc := NewPurchaseLines(db)

	line, err := svc.Save(0, PurchaseLineInput{PurchaseID: purchase.ID, ProductID: product.ID, Quantity: 10, UnitCost: mustDecimal(t, "55.00")})
	require.NoError(t, err)
	requireDecimal(t, "550.00", line.Subtotal)
	assert.Equal(t, 10, productStock(t, db, product.ID))

	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	requireDecimal(t, "550.00", reloaded.Subtotal)
	requireDecimal(t, "550.00", reloaded.Total)
}

func TestPurchaseLineDeleteConsumesBack(t *testing.T) {
	db := setupServiceDB(t)
	f := seedFixtures(t, db)
	product := seedProduct(t, db, f, "Fideos", 0, "10.00")
	purchase := seedPurchase(t, db, f.Supplier.ID)
	svc := NewPurchaseLines(db)

	line, err := svc.Save(0, PurchaseLineInput{PurchaseID: purchase.ID, ProductID: product.ID, Quantity: 10, UnitCost: mustDecimal(t, "7.50")})
	require.NoError(t, err)
	require.Equal(t, 10, productStock(t, db, product.ID))

	require.NoError(t, svc.Delete(line.ID))
	assert.Equal(t, 0, productStock(t, db, product.ID))

	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	requireDecimal(t, "0", reloaded.Total)
}

func TestPurchaseLineDeleteFailsWhenStockAlreadySold(t *testing.T) {
	db := setupServiceDB(t)
	f := seedFixtures(t, db)
	product := seedProduct(t, db, f, "Galletas", 0, "9.00")
	purchase := seedPurchase(t, db, f.Supplier.ID)
	svc := NewPurchaseLines(db)

	line, err := svc.Save(0, PurchaseLineInput{PurchaseID: purchase.ID, ProductID: product.ID, Quantity: 10, UnitCost: mustDecimal(t, "6.00")})
	require.NoError(t, err)

	// A sale drains part of what this purchase added.
	sale := seedSale(t, db, f.Customer.ID)
	_, err = NewSaleLines(db).Save(0, SaleLineInput{SaleID: sale.ID, ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 6, productStock(t, db, product.ID))

	err = svc.Delete(line.ID)
	var reversal *inventory.StockReversalError
	require.ErrorAs(t, err, &reversal)
	assert.Equal(t, 6, reversal.Available)
	assert.Equal(t, 10, reversal.Requested)

	// Line survives, stock untouched.
	var still models.PurchaseLine
	require.NoError(t, db.First(&still, line.ID).Error)
	assert.Equal(t, 6, productStock(t, db, product.ID))
}

func TestPurchaseLineQuantityEdits(t *testing.T) {
	db := setupServiceDB(t)
	f := seedFixtures(t, db)
	product := seedProduct(t, db, f, "Atún", 0, "30.00")
	purchase := seedPurchase(t, db, f.Supplier.ID)
	svc := NewPurchaseLines(db)

	line, err := svc.Save(0, PurchaseLineInput{PurchaseID: purchase.ID, ProductID: product.ID, Quantity: 5, UnitCost: mustDecimal(t, "22.00")})
	require.NoError(t, err)
	require.Equal(t, 5, productStock(t, db, product.ID))

	// Increase replenishes the difference.
	_, err = svc.Save(line.ID, PurchaseLineInput{ProductID: product.ID, Quantity: 8, UnitCost: mustDecimal(t, "22.00")})
	require.NoError(t, err)
	assert.Equal(t, 8, productStock(t, db, product.ID))

	// Decrease consumes the difference back.
	_, err = svc.Save(line.ID, PurchaseLineInput{ProductID: product.ID, Quantity: 2, UnitCost: mustDecimal(t, "22.00")})
	require.NoError(t, err)
	assert.Equal(t, 2, productStock(t, db, product.ID))

	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	requireDecimal(t, "44.00", reloaded.Total)
}

func TestPurchaseLineQuantityDecreaseFailsIfStockDrained(t *testing.T) {
	db := setupServiceDB(t)
	f := seedFixtures(t, db)
	product := seedProduct(t, db, f, "Yerba", 0, "40.00")
	purchase := seedPurchase(t, db, f.Supplier.ID)
	svc := NewPurchaseLines(db)

	line, err := svc.Save(0, PurchaseLineInput{PurchaseID: purchase.ID, ProductID: product.ID, Quantity: 10, UnitCost: mustDecimal(t, "28.00")})
	require.NoError(t, err)

	sale := seedSale(t, db, f.Customer.ID)
	_, err = NewSaleLines(db).Save(0, SaleLineInput{SaleID: sale.ID, ProductID: product.ID, Quantity: 9})
	require.NoError(t, err)
	require.Equal(t, 1, productStock(t, db, product.ID))

	// Reducing 10 -> 2 must give back 8, but only 1 remains.
	_, err = svc.Save(line.ID, PurchaseLineInput{ProductID: product.ID, Quantity: 2, UnitCost: mustDecimal(t, "28.00")})
	var reversal *inventory.StockReversalError
	require.ErrorAs(t, err, &reversal)

	var unchanged models.PurchaseLine
	require.NoError(t, db.First(&unchanged, line.ID).Error)
	assert.Equal(t, 10, unchanged.Quantity)
	assert.Equal(t, 1, productStock(t, db, product.ID))
}

func TestPurchaseLineProductChange(t *testing.T) {
	db := setupServiceDB(t)
	f := seedFixtures(t, db)
	productA := seedProduct(t, db, f, "Té negro", 0, "25.00")
	productB := seedProduct(t, db, f, "Té verde", 0, "27.00")
	purchase := seedPurchase(t, db, f.Supplier.ID)
	svc := NewPurchaseLines(db)

	line, err := svc.Save(0, PurchaseLineInput{PurchaseID: purchase.ID, ProductID: productA.ID, Quantity: 6, UnitCost: mustDecimal(t, "18.00")})
	require.NoError(t, err)
	require.Equal(t, 6, productStock(t, db, productA.ID))

	_, err = svc.Save(line.ID, PurchaseLineInput{ProductID: productB.ID, Quantity: 6, UnitCost: mustDecimal(t, "18.00")})
	require.NoError(t, err)
	assert.Equal(t, 0, productStock(t, db, productA.ID), "old product gave the units back")
	assert.Equal(t, 6, productStock(t, db, productB.ID), "new product received them")
}

func TestPurchaseLineDuplicateProductRejected(t *testing.T) {
	db := setupServiceDB(t)
	f := seedFixtures(t, db)
	product := seedProduct(t, db, f, "Cacao", 0, "60.00")
	purchase := seedPurchase(t, db, f.Supplier.ID)
	svc := NewPurchaseLines(db)

	_, err := svc.Save(0, PurchaseLineInput{PurchaseID: purchase.ID, ProductID: product.ID, Quantity: 1, UnitCost: mustDecimal(t, "45.00")})
	require.NoError(t, err)
	_, err = svc.Save(0, PurchaseLineInput{PurchaseID: purchase.ID, ProductID: product.ID, Quantity: 2, UnitCost: mustDecimal(t, "45.00")})
	assert.ErrorIs(t, err, ErrDuplicateLine)
}
