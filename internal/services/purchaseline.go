package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/internal/inventory"
	"github.com/jrivassol/ventas-app/internal/models"
)

// PurchaseLines mirrors SaleLines with the stock direction inverted: a
// purchase line puts inventory on the shelf, so editing or deleting one has
// to give that inventory back — and may fail if sales already drained it.
type PurchaseLines struct {
	DB *gorm.DB
}

func NewPurchaseLines(db *gorm.DB) *PurchaseLines { return &PurchaseLines{DB: db} }

type PurchaseLineInput struct {
	PurchaseID uint
	ProductID  uint
	Quantity   int
	UnitCost   decimal.Decimal
}

// Save creates (id == 0) or updates a purchase line. New lines replenish the
// product; a product change consumes the old quantity back from the old
// product (reversal, may fail) and replenishes the new one; a quantity change
// applies the signed difference, where a reduction is a reversal.
func (s *PurchaseLines) Save(id uint, in PurchaseLineInput) (models.PurchaseLine, error) {
	var out models.PurchaseLine
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		line, err := savePurchaseLineTx(tx, id, in)
		if err != nil {
			return err
		}
		out = line
		return nil
	})
	if err != nil {
		return models.PurchaseLine{}, err
	}
	return out, nil
}

func savePurchaseLineTx(tx *gorm.DB, id uint, in PurchaseLineInput) (models.PurchaseLine, error) {
	if in.Quantity < models.MinLineQuantity || in.Quantity > models.MaxLineQuantity {
		return models.PurchaseLine{}, ErrInvalidQuantity
	}
	if in.UnitCost.IsNegative() {
		return models.PurchaseLine{}, ErrInvalidPrice
	}

	var prior *models.PurchaseLine
	purchaseID := in.PurchaseID
	if id != 0 {
		var existing models.PurchaseLine
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.PurchaseLine{}, ErrLineNotFound
			}
			return models.PurchaseLine{}, err
		}
		prior = &existing
		purchaseID = existing.PurchaseID
	}

	var purchase models.Purchase
	if err := tx.First(&purchase, purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PurchaseLine{}, ErrPurchaseNotFound
		}
		return models.PurchaseLine{}, err
	}

	var product models.Product
	if err := tx.First(&product, in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PurchaseLine{}, inventory.ErrProductNotFound
		}
		return models.PurchaseLine{}, err
	}

	subtotal := in.UnitCost.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2)

	if prior == nil || prior.ProductID != in.ProductID {
		var count int64
		q := tx.Model(&models.PurchaseLine{}).Where("purchase_id = ? AND product_id = ?", purchaseID, in.ProductID)
		if prior != nil {
			q = q.Where("id <> ?", prior.ID)
		}
		if err := q.Count(&count).Error; err != nil {
			return models.PurchaseLine{}, err
		}
		if count > 0 {
			return models.PurchaseLine{}, ErrDuplicateLine
		}
	}

	line := models.PurchaseLine{
		PurchaseID: purchaseID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Subtotal:   subtotal,
	}
	if prior != nil {
		line.ID = prior.ID
		line.CreatedAt = prior.CreatedAt
	}
	if err := tx.Save(&line).Error; err != nil {
		return models.PurchaseLine{}, err
	}

	switch {
	case prior == nil:
		if _, err := inventory.Apply(tx, in.ProductID, in.Quantity, "purchase"); err != nil {
			return models.PurchaseLine{}, err
		}
	case prior.ProductID != in.ProductID:
		// Take back what the old product had gained before crediting the new
		// one; old product locked first.
		if _, err := inventory.Reverse(tx, prior.ProductID, -prior.Quantity, "purchase_edit"); err != nil {
			return models.PurchaseLine{}, err
		}
		if _, err := inventory.Apply(tx, in.ProductID, in.Quantity, "purchase_edit"); err != nil {
			return models.PurchaseLine{}, err
		}
	default:
		delta := in.Quantity - prior.Quantity
		if delta < 0 {
			if _, err := inventory.Reverse(tx, in.ProductID, delta, "purchase_edit"); err != nil {
				return models.PurchaseLine{}, err
			}
		} else if delta > 0 {
			if _, err := inventory.Apply(tx, in.ProductID, delta, "purchase_edit"); err != nil {
				return models.PurchaseLine{}, err
			}
		}
	}

	if err := recomputePurchaseTotals(tx, purchaseID); err != nil {
		return models.PurchaseLine{}, err
	}
	return line, nil
}

// Delete removes a purchase line, consuming its full quantity back from the
// product. Fails with a reversal error if stock has since dropped below it.
func (s *PurchaseLines) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var line models.PurchaseLine
		if err := tx.First(&line, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLineNotFound
			}
			return err
		}
		if _, err := inventory.Reverse(tx, line.ProductID, -line.Quantity, "purchase_delete"); err != nil {
			return err
		}
		if err := tx.Delete(&line).Error; err != nil {
			return err
		}
		return recomputePurchaseTotals(tx, line.PurchaseID)
	})
}
