package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/httpx"
	"github.com/jrivassol/ventas-app/internal/models"
	"github.com/jrivassol/ventas-app/validation"
)

type SupplierHandler struct{ DB *gorm.DB }

func NewSupplierHandler(db *gorm.DB) *SupplierHandler { return &SupplierHandler{DB: db} }

type supplierInput struct {
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
}

func (in *supplierInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("company_name", in.CompanyName, v)
	validation.MaxLen("company_name", in.CompanyName, 100, v)
	validation.Digits("phone", in.Phone, 8, v)
	return v
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Supplier{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		dbq = dbq.Where("lower(company_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	var suppliers []models.Supplier
	if err := dbq.Order("company_name asc").Find(&suppliers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_suppliers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input supplierInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	s := models.Supplier{CompanyName: strings.TrimSpace(input.CompanyName), Phone: input.Phone}
	if err := h.DB.Create(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "supplier_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		methodNotAllowed(w, "POST,PUT")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var s models.Supplier
	if err := h.DB.First(&s, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var input supplierInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	s.CompanyName = strings.TrimSpace(input.CompanyName)
	s.Phone = input.Phone
	if err := h.DB.Save(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// Delete is hard but protected while products or purchases reference the supplier.
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST,DELETE")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var s models.Supplier
	if err := h.DB.First(&s, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var products, purchases int64
	h.DB.Model(&models.Product{}).Where("supplier_id = ?", id).Count(&products)
	h.DB.Model(&models.Purchase{}).Where("supplier_id = ?", id).Count(&purchases)
	if products > 0 || purchases > 0 {
		httpx.JSONError(w, http.StatusConflict, "supplier_in_use", nil)
		return
	}
	if err := h.DB.Delete(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
