package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/httpx"
	"github.com/jrivassol/ventas-app/internal/excel"
	"github.com/jrivassol/ventas-app/internal/inventory"
	"github.com/jrivassol/ventas-app/internal/models"
	"github.com/jrivassol/ventas-app/validation"
)

type ProductHandler struct{ DB *gorm.DB }

func NewProductHandler(db *gorm.DB) *ProductHandler { return &ProductHandler{DB: db} }

type productInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Stock       *int            `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	BrandID     uint            `json:"brand_id"`
	CategoryID  uint            `json:"category_id"`
	SupplierID  uint            `json:"supplier_id"`
}

func (in *productInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.MaxLen("name", in.Name, 50, v)
	validation.MaxLen("description", in.Description, 200, v)
	if in.Price.IsNegative() {
		v["price"] = "must_not_be_negative"
	}
	if in.Stock != nil {
		validation.RangeInt("stock", *in.Stock, models.MinStock, models.MaxStock, v)
	}
	validation.PositiveInt("brand_id", int(in.BrandID), v)
	validation.PositiveInt("category_id", int(in.CategoryID), v)
	validation.PositiveInt("supplier_id", int(in.SupplierID), v)
	return v
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	pageSize := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			pageSize = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * pageSize
		}
	}
	dbq := h.DB.Model(&models.Product{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		dbq = dbq.Where("lower(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	var total int64
	dbq.Count(&total)
	var products []models.Product
	if err := dbq.
		Preload("Brand").
		Preload("Category").
		Preload("Supplier").
		Order("id desc").
		Limit(pageSize).
		Offset(offset).
		Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": total, "limit": pageSize, "offset": offset})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if !h.referencesExist(w, &input) {
		return
	}
	p := models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		BrandID:     input.BrandID,
		CategoryID:  input.CategoryID,
		SupplierID:  input.SupplierID,
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if input.Stock != nil && *input.Stock > 0 {
			updated, err := inventory.Apply(tx, p.ID, *input.Stock, "initial")
			if err != nil {
				return err
			}
			p.Stock = updated.Stock
		}
		return nil
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Update edits catalog fields only; stock belongs to the inventory ledger.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		methodNotAllowed(w, "POST,PUT")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Product
	if err := h.DB.First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.BrandID == 0 {
		input.BrandID = p.BrandID
	}
	if input.CategoryID == 0 {
		input.CategoryID = p.CategoryID
	}
	if input.SupplierID == 0 {
		input.SupplierID = p.SupplierID
	}
	input.Stock = nil // ignored here; only the ledger moves stock
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if !h.referencesExist(w, &input) {
		return
	}
	p.Name = strings.TrimSpace(input.Name)
	p.Description = strings.TrimSpace(input.Description)
	p.Price = input.Price
	p.BrandID = input.BrandID
	p.CategoryID = input.CategoryID
	p.SupplierID = input.SupplierID
	if err := h.DB.Save(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete is blocked while any sale or purchase line references the product.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST,DELETE")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Product
	if err := h.DB.First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var saleLines, purchaseLines int64
	h.DB.Model(&models.SaleLine{}).Where("product_id = ?", id).Count(&saleLines)
	h.DB.Model(&models.PurchaseLine{}).Where("product_id = ?", id).Count(&purchaseLines)
	if saleLines > 0 || purchaseLines > 0 {
		httpx.JSONError(w, http.StatusConflict, "product_in_use", nil)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.StockMovement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Import loads products from an xlsx upload. brand_id, category_id and
// supplier_id apply to every imported row; rows whose name already exists are
// skipped and reported. The whole file imports in one transaction.
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	input := productInput{
		BrandID:    formUint(r, "brand_id"),
		CategoryID: formUint(r, "category_id"),
		SupplierID: formUint(r, "supplier_id"),
	}
	v := validation.Violations{}
	validation.PositiveInt("brand_id", int(input.BrandID), v)
	validation.PositiveInt("category_id", int(input.CategoryID), v)
	validation.PositiveInt("supplier_id", int(input.SupplierID), v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if !h.referencesExist(w, &input) {
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "file_required", nil)
		return
	}
	defer file.Close()

	rows, err := excel.ParseProducts(file)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_workbook", err.Error())
		return
	}

	created := 0
	skipped := []string{}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			var count int64
			if err := tx.Model(&models.Product{}).Where("name = ?", row.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				skipped = append(skipped, row.Name)
				continue
			}
			p := models.Product{
				Name:        row.Name,
				Description: row.Description,
				Price:       row.Price,
				BrandID:     input.BrandID,
				CategoryID:  input.CategoryID,
				SupplierID:  input.SupplierID,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			if row.Stock > 0 {
				if _, err := inventory.Apply(tx, p.ID, row.Stock, "import"); err != nil {
					return err
				}
			}
			created++
		}
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"created": created, "skipped": skipped})
}

func (h *ProductHandler) referencesExist(w http.ResponseWriter, in *productInput) bool {
	var brand models.Brand
	if err := h.DB.First(&brand, in.BrandID).Error; err != nil || !brand.Active {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_brand", nil)
		return false
	}
	var category models.Category
	if err := h.DB.First(&category, in.CategoryID).Error; err != nil || !category.Active {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_category", nil)
		return false
	}
	if err := h.DB.First(&models.Supplier{}, in.SupplierID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_supplier", nil)
		return false
	}
	return true
}

func formUint(r *http.Request, field string) uint {
	n, _ := strconv.Atoi(r.FormValue(field))
	if n <= 0 {
		return 0
	}
	return uint(n)
}
