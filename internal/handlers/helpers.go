package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/httpx"
	"github.com/jrivassol/ventas-app/internal/inventory"
	"github.com/jrivassol/ventas-app/internal/services"
)

// requestID reads the record id from ?id= (or a form field as fallback).
func requestID(r *http.Request) uint {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		idStr = r.FormValue("id")
	}
	id, _ := strconv.Atoi(idStr)
	if id <= 0 {
		return 0
	}
	return uint(id)
}

// writeDomainError translates service and inventory errors into HTTP
// responses: validation 400, not found 404, stock/uniqueness conflicts 409.
func writeDomainError(w http.ResponseWriter, err error) {
	var insufficient *inventory.InsufficientStockError
	var reversal *inventory.StockReversalError
	var limit *inventory.StockLimitError
	var validation *inventory.StockValidationError
	switch {
	case errors.Is(err, services.ErrInvalidQuantity):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_quantity", nil)
	case errors.Is(err, services.ErrInvalidPrice):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_price", nil)
	case errors.Is(err, services.ErrNoLines):
		httpx.JSONError(w, http.StatusBadRequest, "no_lines", nil)
	case errors.Is(err, services.ErrDuplicateLine):
		httpx.JSONError(w, http.StatusConflict, "duplicate_line", nil)
	case errors.Is(err, services.ErrSaleNotFound),
		errors.Is(err, services.ErrPurchaseNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrSupplierNotFound),
		errors.Is(err, services.ErrLineNotFound),
		errors.Is(err, inventory.ErrProductNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.As(err, &validation):
		httpx.JSONError(w, http.StatusConflict, "insufficient_stock", validation.Failures)
	case errors.As(err, &insufficient):
		httpx.JSONError(w, http.StatusConflict, "insufficient_stock", insufficient)
	case errors.As(err, &reversal):
		httpx.JSONError(w, http.StatusConflict, "stock_reversal_blocked", reversal)
	case errors.As(err, &limit):
		httpx.JSONError(w, http.StatusConflict, "stock_limit_exceeded", limit)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}
