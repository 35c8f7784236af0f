package inventory

import "fmt"

// InsufficientStockError rejects a consuming adjustment that would drive stock
// below zero. Carries what the caller needs for a per-product user message.
type InsufficientStockError struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (id %d): available %d, requested %d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

// StockReversalError rejects reversing a previously applied effect (line edit
// or delete) when the give-back would drive stock negative. This points at an
// inconsistent prior state rather than a transient condition.
type StockReversalError struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
}

func (e *StockReversalError) Error() string {
	return fmt.Sprintf("cannot reverse %d units of product %q (id %d): only %d in stock",
		e.Requested, e.ProductName, e.ProductID, e.Available)
}

// StockLimitError rejects a replenishing adjustment that would push stock past
// the storage ceiling.
type StockLimitError struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Resulting   int    `json:"resulting"`
	Limit       int    `json:"limit"`
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("stock for product %q (id %d) would reach %d, above the limit of %d",
		e.ProductName, e.ProductID, e.Resulting, e.Limit)
}

// StockValidationError aggregates the pre-check failures of a batch
// registration so the caller can surface one message per product.
type StockValidationError struct {
	Failures []*InsufficientStockError
}

func (e *StockValidationError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}
	return fmt.Sprintf("insufficient stock for %d products", len(e.Failures))
}
