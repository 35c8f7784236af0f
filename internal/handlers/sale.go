package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/httpx"
	"github.com/jrivassol/ventas-app/internal/models"
	"github.com/jrivassol/ventas-app/internal/services"
)

type SaleHandler struct {
	DB    *gorm.DB
	Sales *services.Sales
	Lines *services.SaleLines
}

func NewSaleHandler(db *gorm.DB) *SaleHandler {
	return &SaleHandler{DB: db, Sales: services.NewSales(db), Lines: services.NewSaleLines(db)}
}

type saleItemBody struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type saleBody struct {
	CustomerID uint           `json:"customer_id"`
	Date       string         `json:"date"` // YYYY-MM-DD, defaults to today
	Items      []saleItemBody `json:"items"`
}

// parseDate accepts YYYY-MM-DD or RFC3339; empty means "use today".
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	var sales []models.Sale
	if err := h.DB.
		Preload("Customer").
		Preload("Lines").
		Preload("Lines.Product").
		Order("id desc").
		Find(&sales).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_sales", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, sales)
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input saleBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	date, ok := parseDate(input.Date)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
		return
	}
	items := make([]services.SaleItemInput, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, services.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	sale, err := h.Sales.Register(input.CustomerID, date, items)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST,DELETE")
		return
	}
	id := requestID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Sales.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

type saleLineBody struct {
	SaleID    uint             `json:"sale_id"`
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// SaveLine creates a line (no ?id=) or edits one (?id=<line>).
func (h *SaleHandler) SaveLine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		methodNotAllowed(w, "POST,PUT")
		return
	}
	var input saleLineBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	line, err := h.Lines.Save(requestID(r), services.SaleLineInput{
		SaleID:    input.SaleID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, line)
}

func (h *SaleHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
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
