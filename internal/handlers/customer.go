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

type CustomerHandler struct{ DB *gorm.DB }

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

type customerInput struct {
	FirstName      string `json:"first_name"`
	MiddleName     string `json:"middle_name"`
	LastName       string `json:"last_name"`
	SecondLastName string `json:"second_last_name"`
}

func (in *customerInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("first_name", in.FirstName, v)
	validation.Required("last_name", in.LastName, v)
	validation.MaxLen("first_name", in.FirstName, 50, v)
	validation.MaxLen("middle_name", in.MiddleName, 50, v)
	validation.MaxLen("last_name", in.LastName, 50, v)
	validation.MaxLen("second_last_name", in.SecondLastName, 50, v)
	return v
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Customer{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ?", like, like)
	}
	var customers []models.Customer
	if err := dbq.Order("id desc").Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input customerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c := models.Customer{
		FirstName:      strings.TrimSpace(input.FirstName),
		MiddleName:     strings.TrimSpace(input.MiddleName),
		LastName:       strings.TrimSpace(input.LastName),
		SecondLastName: strings.TrimSpace(input.SecondLastName),
	}
	if err := h.DB.Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "customer_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		methodNotAllowed(w, "POST,PUT")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var c models.Customer
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var input customerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c.FirstName = strings.TrimSpace(input.FirstName)
	c.MiddleName = strings.TrimSpace(input.MiddleName)
	c.LastName = strings.TrimSpace(input.LastName)
	c.SecondLastName = strings.TrimSpace(input.SecondLastName)
	if err := h.DB.Save(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Delete is hard but protected: a customer referenced by any sale stays.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST,DELETE")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var c models.Customer
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var sales int64
	h.DB.Model(&models.Sale{}).Where("customer_id = ?", id).Count(&sales)
	if sales > 0 {
		httpx.JSONError(w, http.StatusConflict, "customer_has_sales", nil)
		return
	}
	if err := h.DB.Delete(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
