package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jrivassol/ventas-app/internal/models"
)

func TestProductCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	refs := seedCatalog(t, db)
	h := NewProductHandler(db)

	body := `{"name":"Aceite","description":"1L","stock":12,"price":"38.50",` +
		`"brand_id":` + strconv.Itoa(int(refs.Brand.ID)) +
		`,"category_id":` + strconv.Itoa(int(refs.Category.ID)) +
		`,"supplier_id":` + strconv.Itoa(int(refs.Supplier.ID)) + `}`
	w := postJSON(t, h.Create, "/products", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	// Initial stock goes through the ledger, leaving a movement behind.
	var movements int64
	db.Model(&models.StockMovement{}).Count(&movements)
	if movements != 1 {
		t.Fatalf("expected 1 stock movement got %d", movements)
	}

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var payload struct {
		Items []models.Product `json:"items"`
		Total int64            `json:"total"`
	}
	decodeBody(t, w2, &payload)
	if len(payload.Items) != 1 || payload.Items[0].Name != "Aceite" {
		t.Fatalf("unexpected list payload: %s", w2.Body.String())
	}
	if payload.Items[0].Stock != 12 {
		t.Fatalf("expected stock 12 got %d", payload.Items[0].Stock)
	}
}

func TestProductCreateRejectsUnknownBrand(t *testing.T) {
	db := setupTestDB(t)
	refs := seedCatalog(t, db)
	h := NewProductHandler(db)

	body := `{"name":"Aceite","price":"38.50","brand_id":999,` +
		`"category_id":` + strconv.Itoa(int(refs.Category.ID)) +
		`,"supplier_id":` + strconv.Itoa(int(refs.Supplier.ID)) + `}`
	w := postJSON(t, h.Create, "/products", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestProductDeleteProtectedWhileReferenced(t *testing.T) {
	db := setupTestDB(t)
	refs := seedCatalog(t, db)
	h := NewProductHandler(db)
	p := seedTestProduct(t, db, refs, "Atún", 10, "20.00")

	sale := models.Sale{Reference: "test-ref-1", CustomerID: refs.Customer.ID}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("sale: %v", err)
	}
	line := models.SaleLine{SaleID: sale.ID, ProductID: p.ID, Quantity: 1}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("line: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/products/delete?id="+strconv.Itoa(int(p.ID)), nil)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}

	// Without references the delete goes through.
	if err := db.Delete(&line).Error; err != nil {
		t.Fatalf("cleanup line: %v", err)
	}
	w2 := httptest.NewRecorder()
	h.Delete(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w2.Code, w2.Body.String())
	}
}

func TestProductImport(t *testing.T) {
	db := setupTestDB(t)
	refs := seedCatalog(t, db)
	h := NewProductHandler(db)
	seedTestProduct(t, db, refs, "Frijol", 5, "10.00") // duplicate name, should be skipped

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]interface{}{
		"A1": "nombre", "B1": "existencia", "C1": "precio",
		"A2": "Frijol", "B2": 10, "C2": "12.00",
		"A3": "Maíz", "B3": 30, "C3": "8.25",
	}
	for ref, v := range cells {
		if err := f.SetCellValue(sheet, ref, v); err != nil {
			t.Fatalf("cell: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(buf.Bytes()); err != nil {
		t.Fatalf("write: %v", err)
	}
	for field, id := range map[string]uint{"brand_id": refs.Brand.ID, "category_id": refs.Category.ID, "supplier_id": refs.Supplier.ID} {
		if err := mw.WriteField(field, strconv.Itoa(int(id))); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/products/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Import(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var result struct {
		Created int      `json:"created"`
		Skipped []string `json:"skipped"`
	}
	decodeBody(t, w, &result)
	if result.Created != 1 {
		t.Fatalf("expected 1 created got %d", result.Created)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "Frijol" {
		t.Fatalf("unexpected skipped: %v", result.Skipped)
	}

	var imported models.Product
	if err := db.Where("name = ?", "Maíz").First(&imported).Error; err != nil {
		t.Fatalf("imported product: %v", err)
	}
	if imported.Stock != 30 {
		t.Fatalf("expected stock 30 got %d", imported.Stock)
	}
	var movements int64
	db.Model(&models.StockMovement{}).Where("product_id = ? AND reason = ?", imported.ID, "import").Count(&movements)
	if movements != 1 {
		t.Fatalf("expected import movement, got %d", movements)
	}
}
