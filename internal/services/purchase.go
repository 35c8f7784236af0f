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

// Purchases mirrors Sales for incoming goods. Registration needs no stock
// pre-check (receiving replenishes); deletion must give everything back and
// aborts if any line cannot be reversed.
type Purchases struct {
	DB *gorm.DB
}

func NewPurchases(db *gorm.DB) *Purchases { return &Purchases{DB: db} }

type PurchaseItemInput struct {
	ProductID uint
	Quantity  int
	UnitCost  decimal.Decimal
}

// Register creates a purchase plus its initial lines as one atomic operation.
func (s *Purchases) Register(supplierID uint, date time.Time, items []PurchaseItemInput) (models.Purchase, error) {
	if len(items) == 0 {
		return models.Purchase{}, ErrNoLines
	}
	seen := make(map[uint]bool, len(items))
	for _, it := range items {
		if it.Quantity < models.MinLineQuantity || it.Quantity > models.MaxLineQuantity {
			return models.Purchase{}, ErrInvalidQuantity
		}
		if seen[it.ProductID] {
			return models.Purchase{}, ErrDuplicateLine
		}
		seen[it.ProductID] = true
	}

	var supplier models.Supplier
	if err := s.DB.First(&supplier, supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Purchase{}, ErrSupplierNotFound
		}
		return models.Purchase{}, err
	}

	if date.IsZero() {
		date = time.Now()
	}
	var purchase models.Purchase
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		purchase = models.Purchase{
			Reference:  uuid.NewString(),
			Date:       date,
			SupplierID: supplierID,
			Subtotal:   decimal.Zero,
			Total:      decimal.Zero,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}
		for _, it := range items {
			if _, err := savePurchaseLineTx(tx, 0, PurchaseLineInput{
				PurchaseID: purchase.ID,
				ProductID:  it.ProductID,
				Quantity:   it.Quantity,
				UnitCost:   it.UnitCost,
			}); err != nil {
				return err
			}
		}
		return tx.Preload("Lines").First(&purchase, purchase.ID).Error
	})
	if err != nil {
		return models.Purchase{}, err
	}
	return purchase, nil
}

// Delete removes a purchase and its lines, consuming every line's quantity
// back from its product. A single short product aborts the whole delete.
func (s *Purchases) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var purchase models.Purchase
		if err := tx.Preload("Lines").First(&purchase, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return err
		}
		for _, line := range purchase.Lines {
			if _, err := inventory.Reverse(tx, line.ProductID, -line.Quantity, "purchase_delete"); err != nil {
				return err
			}
		}
		if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&models.PurchaseLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&purchase).Error
	})
}
