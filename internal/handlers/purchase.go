package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/httpx"
	"github.com/jrivassol/ventas-app/internal/models"
	"github.com/jrivassol/ventas-app/internal/services"
)

type PurchaseHandler struct {
	DB        *gorm.DB
	Purchases *services.Purchases
	Lines     *services.PurchaseLines
}

func NewPurchaseHandler(db *gorm.DB) *PurchaseHandler {
	return &PurchaseHandler{DB: db, Purchases: services.NewPurchases(db), Lines: services.NewPurchaseLines(db)}
}

type purchaseItemBody struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type purchaseBody struct {
	SupplierID uint               `json:"supplier_id"`
	Date       string             `json:"date"`
	Items      []purchaseItemBody `json:"items"`
}

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	var purchases []models.Purchase
	if err := h.DB.
		Preload("Supplier").
		Preload("Lines").
		Preload("Lines.Product").
		Order("id desc").
		Find(&purchases).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_purchases", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, purchases)
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input purchaseBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	date, ok := parseDate(input.Date)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
		return
	}
	items := make([]services.PurchaseItemInput, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, services.PurchaseItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	purchase, err := h.Purchases.Register(input.SupplierID, date, items)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, purchase)
}

func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST,DELETE")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Purchases.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

type purchaseLineBody struct {
	PurchaseID uint            `json:"purchase_id"`
	ProductID  uint            `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

func (h *PurchaseHandler) SaveLine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		methodNotAllowed(w, "POST,PUT")
		return
	}
	var input purchaseLineBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	line, err := h.Lines.Save(requestID(r), services.PurchaseLineInput{
		PurchaseID: input.PurchaseID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		UnitCost:   input.UnitCost,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, line)
}

func (h *PurchaseHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST,DELETE")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Lines.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
