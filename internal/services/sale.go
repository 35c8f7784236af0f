package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/internal/inventory"
	"github.com/jrivassol/ventas-app/internal/models"
)

// Sales orchestrates whole sale transactions: batch registration from the
// point-of-sale screen and deletion with per-line stock restore.
type Sales struct {
	DB *gorm.DB
}

func NewSales(db *gorm.DB) *Sales { return &Sales{DB: db} }

type SaleItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice *decimal.Decimal
}

// Register creates a sale plus its initial lines as one atomic operation.
// Stock is pre-checked outside any lock so the cashier gets one message per
// insufficient product without anything persisted; the line engine re-checks
// under lock inside the transaction, which remains the authority.
func (s *Sales) Register(customerID uint, date time.Time, items []SaleItemInput) (models.Sale, error) {
	if len(items) == 0 {
		return models.Sale{}, ErrNoLines
	}
	seen := make(map[uint]bool, len(items))
	for _, it := range items {
		if it.Quantity < models.MinLineQuantity || it.Quantity > models.MaxLineQuantity {
			return models.Sale{}, ErrInvalidQuantity
		}
		if seen[it.ProductID] {
			return models.Sale{}, ErrDuplicateLine
		}
		seen[it.ProductID] = true
	}

	var customer models.Customer
	if err := s.DB.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Sale{}, ErrCustomerNotFound
		}
		return models.Sale{}, err
	}

	if err := s.precheckStock(items); err != nil {
		return models.Sale{}, err
	}

	if date.IsZero() {
		date = time.Now()
	}
	var sale models.Sale
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sale = models.Sale{
			Reference:  uuid.NewString(),
			Date:       date,
			CustomerID: customerID,
			Total:      decimal.Zero,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		for _, it := range items {
			if _, err := saveSaleLineTx(tx, 0, SaleLineInput{
				SaleID:    sale.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			}); err != nil {
				return err
			}
		}
		return tx.Preload("Lines").First(&sale, sale.ID).Error
	})
	if err != nil {
		return models.Sale{}, err
	}
	return sale, nil
}

// precheckStock reads currently-visible stock without locks and collects one
// failure per short product. An optimistic pre-filter only.
func (s *Sales) precheckStock(items []SaleItemInput) error {
	var failures []*inventory.InsufficientStockError
	for _, it := range items {
		var p models.Product
		if err := s.DB.First(&p, it.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return inventory.ErrProductNotFound
			}
			return err
		}
		if p.Stock < it.Quantity {
			failures = append(failures, &inventory.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   it.Quantity,
			})
		}
	}
	if len(failures) > 0 {
		return &inventory.StockValidationError{Failures: failures}
	}
	return nil
}

// Delete removes a sale and its lines, restoring the consumed stock per line
// before the rows go away.
func (s *Sales) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.Preload("Lines").First(&sale, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}
		for _, line := range sale.Lines {
			if _, err := inventory.Apply(tx, line.ProductID, line.Quantity, "sale_delete"); err != nil {
				return err
			}
		}
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sale).Error
	})
}
