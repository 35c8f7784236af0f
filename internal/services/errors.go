package services

import "errors"

var (
	ErrSaleNotFound     = errors.New("sale not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrLineNotFound     = errors.New("line not found")
	ErrDuplicateLine    = errors.New("product already has a line in this transaction")
	ErrInvalidQuantity  = errors.New("quantity out of range")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrNoLines          = errors.New("at least one line is required")
)
