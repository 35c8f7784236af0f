package inventory

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jrivassol/ventas-app/internal/models"
)

// The ledger is the only code allowed to touch Product.Stock. Every adjustment
// runs against the caller's transaction, reads the row under an exclusive lock,
// enforces the [MinStock, MaxStock] invariant and leaves a movement row behind.

var ErrProductNotFound = errors.New("product not found")

// Apply adjusts the product's stock by delta (negative = consume) inside tx.
// The product row stays locked until tx commits or rolls back, so concurrent
// writers against the same product serialize here.
func Apply(tx *gorm.DB, productID uint, delta int, reason string) (models.Product, error) {
	var p models.Product
	if err := lockForUpdate(tx).First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	if delta == 0 {
		return p, nil
	}

	resulting := p.Stock + delta
	if resulting < models.MinStock {
		return models.Product{}, &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.Stock,
			Requested:   -delta,
		}
	}
	if resulting > models.MaxStock {
		return models.Product{}, &StockLimitError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Resulting:   resulting,
			Limit:       models.MaxStock,
		}
	}

	if err := tx.Model(&p).Update("stock", resulting).Error; err != nil {
		return models.Product{}, err
	}
	movement := models.StockMovement{ProductID: p.ID, Delta: delta, Resulting: resulting, Reason: reason}
	if err := tx.Create(&movement).Error; err != nil {
		return models.Product{}, err
	}
	p.Stock = resulting
	return p, nil
}

// Reverse gives back a previously consumed or applied quantity. Same
// arithmetic as Apply, but an underflow is reported as a reversal error since
// it means stock was drained below what the reversed operation had added.
func Reverse(tx *gorm.DB, productID uint, delta int, reason string) (models.Product, error) {
	p, err := Apply(tx, productID, delta, reason)
	var insufficient *InsufficientStockError
	if errors.As(err, &insufficient) {
		return models.Product{}, &StockReversalError{
			ProductID:   insufficient.ProductID,
			ProductName: insufficient.ProductName,
			Available:   insufficient.Available,
			Requested:   insufficient.Requested,
		}
	}
	return p, err
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect supports it.
// sqlite (used by the test suite) has no row locks; its single-writer model
// already serializes these transactions.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
