package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.User{},
		&models.Brand{}, &models.Category{}, &models.Supplier{}, &models.Customer{},
		&models.Product{}, &models.StockMovement{},
		&models.Sale{}, &models.SaleLine{},
		&models.Purchase{}, &models.PurchaseLine{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type catalogRefs struct {
	Brand    models.Brand
	Category models.Category
	Supplier models.Supplier
	Customer models.Customer
}

func seedCatalog(t *testing.T, db *gorm.DB) catalogRefs {
	t.Helper()
	refs := catalogRefs{
		Brand:    models.Brand{Name: "Nestlé", Active: true},
		Category: models.Category{Name: "Abarrotes", Active: true},
		Supplier: models.Supplier{CompanyName: "Importadora Sur", Phone: "22446688"},
		Customer: models.Customer{FirstName: "Carlos", LastName: "Mejía"},
	}
	for _, rec := range []interface{}{&refs.Brand, &refs.Category, &refs.Supplier, &refs.Customer} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return refs
}

func seedTestProduct(t *testing.T, db *gorm.DB, refs catalogRefs, name string, stock int, price string) models.Product {
	t.Helper()
	d, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	p := models.Product{
		Name: name, Stock: stock, Price: d,
		BrandID: refs.Brand.ID, CategoryID: refs.Category.ID, SupplierID: refs.Supplier.ID,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func postJSON(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode: %v body=%s", err, w.Body.String())
	}
}
