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

// Brands and categories share the same shape: a unique name plus an Active
// flag. "Deleting" one that products still reference only deactivates it.

type nameInput struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

func (in *nameInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.MaxLen("name", in.Name, 50, v)
	return v
}

type BrandHandler struct{ DB *gorm.DB }

func NewBrandHandler(db *gorm.DB) *BrandHandler { return &BrandHandler{DB: db} }

func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Brand{})
	if r.URL.Query().Get("all") == "" {
		dbq = dbq.Where("active = ?", true)
	}
	var brands []models.Brand
	if err := dbq.Order("name asc").Find(&brands).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_brands", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, brands)
}

func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input nameInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	b := models.Brand{Name: strings.TrimSpace(input.Name), Active: true}
	if err := h.DB.Create(&b).Error; err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "name_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "brand_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		methodNotAllowed(w, "POST,PUT")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var b models.Brand
	if err := h.DB.First(&b, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var input nameInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	b.Name = strings.TrimSpace(input.Name)
	if input.Active != nil {
		b.Active = *input.Active
	}
	if err := h.DB.Save(&b).Error; err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "name_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Delete deactivates when products reference the brand, removes otherwise.
func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST,DELETE")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var b models.Brand
	if err := h.DB.First(&b, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var products int64
	h.DB.Model(&models.Product{}).Where("brand_id = ?", id).Count(&products)
	if products > 0 {
		b.Active = false
		if err := h.DB.Save(&b).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"deactivated": id})
		return
	}
	if err := h.DB.Delete(&b).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

type CategoryHandler struct{ DB *gorm.DB }

func NewCategoryHandler(db *gorm.DB) *CategoryHandler { return &CategoryHandler{DB: db} }

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Category{})
	if r.URL.Query().Get("all") == "" {
		dbq = dbq.Where("active = ?", true)
	}
	var categories []models.Category
	if err := dbq.Order("name asc").Find(&categories).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_categories", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input nameInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c := models.Category{Name: strings.TrimSpace(input.Name), Active: true}
	if err := h.DB.Create(&c).Error; err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "name_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "category_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		methodNotAllowed(w, "POST,PUT")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var c models.Category
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var input nameInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c.Name = strings.TrimSpace(input.Name)
	if input.Active != nil {
		c.Active = *input.Active
	}
	if err := h.DB.Save(&c).Error; err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "name_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST,DELETE")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var c models.Category
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var products int64
	h.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&products)
	if products > 0 {
		c.Active = false
		if err := h.DB.Save(&c).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"deactivated": id})
		return
	}
	if err := h.DB.Delete(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func isDuplicate(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "duplicate") ||
		strings.Contains(strings.ToLower(err.Error()), "unique")
}
