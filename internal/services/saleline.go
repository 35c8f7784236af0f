package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/internal/inventory"
	"github.com/jrivassol/ventas-app/internal/models"
)

// SaleLines owns the lifecycle of a single sale line: subtotal computation,
// diffing against the previously persisted row, the stock effect through the
// inventory ledger, and the parent total — all in one transaction.
type SaleLines struct {
	DB *gorm.DB
}

func NewSaleLines(db *gorm.DB) *SaleLines { return &SaleLines{DB: db} }

// SaleLineInput is the write request for a sale line. UnitPrice nil means
// "use the product's current price".
type SaleLineInput struct {
	SaleID    uint
	ProductID uint
	Quantity  int
	UnitPrice *decimal.Decimal
}

// Save creates (id == 0) or updates a sale line. Stock effects by case:
// new line consumes the full quantity; a product change gives the quantity
// back to the old product and consumes from the new one (old locked first);
// a quantity change consumes or gives back the difference. Any insufficient
// stock rolls back the line write too.
func (s *SaleLines) Save(id uint, in SaleLineInput) (models.SaleLine, error) {
	var out models.SaleLine
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		line, err := saveSaleLineTx(tx, id, in)
		if err != nil {
			return err
		}
		out = line
		return nil
	})
	if err != nil {
		return models.SaleLine{}, err
	}
	return out, nil
}

func saveSaleLineTx(tx *gorm.DB, id uint, in SaleLineInput) (models.SaleLine, error) {
	if in.Quantity < models.MinLineQuantity || in.Quantity > models.MaxLineQuantity {
		return models.SaleLine{}, ErrInvalidQuantity
	}

	var prior *models.SaleLine
	saleID := in.SaleID
	if id != 0 {
		var existing models.SaleLine
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.SaleLine{}, ErrLineNotFound
			}
			return models.SaleLine{}, err
		}
		prior = &existing
		// Lines cannot be moved between sales; the parent is the persisted one.
		saleID = existing.SaleID
	}

	var sale models.Sale
	if err := tx.First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SaleLine{}, ErrSaleNotFound
		}
		return models.SaleLine{}, err
	}

	var product models.Product
	if err := tx.First(&product, in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SaleLine{}, inventory.ErrProductNotFound
		}
		return models.SaleLine{}, err
	}

	price := product.Price
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return models.SaleLine{}, ErrInvalidPrice
		}
		price = *in.UnitPrice
	} else if prior != nil && prior.ProductID == in.ProductID {
		// Keep the price captured at creation unless the caller overrides it.
		price = prior.UnitPrice
	}
	subtotal := price.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2)

	// One line per (sale, product); the unique index is the backstop.
	if prior == nil || prior.ProductID != in.ProductID {
		var count int64
		q := tx.Model(&models.SaleLine{}).Where("sale_id = ? AND product_id = ?", saleID, in.ProductID)
		if prior != nil {
			q = q.Where("id <> ?", prior.ID)
		}
		if err := q.Count(&count).Error; err != nil {
			return models.SaleLine{}, err
		}
		if count > 0 {
			return models.SaleLine{}, ErrDuplicateLine
		}
	}

	line := models.SaleLine{
		SaleID:    saleID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: price,
		Subtotal:  subtotal,
	}
	if prior != nil {
		line.ID = prior.ID
		line.CreatedAt = prior.CreatedAt
	}
	if err := tx.Save(&line).Error; err != nil {
		return models.SaleLine{}, err
	}

	switch {
	case prior == nil:
		if _, err := inventory.Apply(tx, in.ProductID, -in.Quantity, "sale"); err != nil {
			return models.SaleLine{}, err
		}
	case prior.ProductID != in.ProductID:
		// Old product first, then the new one, so the lock order is stable
		// for the common edit flow.
		if _, err := inventory.Apply(tx, prior.ProductID, prior.Quantity, "sale_edit"); err != nil {
			return models.SaleLine{}, err
		}
		if _, err := inventory.Apply(tx, in.ProductID, -in.Quantity, "sale_edit"); err != nil {
			return models.SaleLine{}, err
		}
	default:
		if _, err := inventory.Apply(tx, in.ProductID, prior.Quantity-in.Quantity, "sale_edit"); err != nil {
			return models.SaleLine{}, err
		}
	}

	if err := recomputeSaleTotal(tx, saleID); err != nil {
		return models.SaleLine{}, err
	}
	return line, nil
}

// Delete removes a sale line and gives its quantity back to the product,
// the symmetric counterpart of the purchase-line delete path.
func (s *SaleLines) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var line models.SaleLine
		if err := tx.First(&line, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLineNotFound
			}
			return err
		}
		if _, err := inventory.Apply(tx, line.ProductID, line.Quantity, "sale_delete"); err != nil {
			return err
		}
		if err := tx.Delete(&line).Error; err != nil {
			return err
		}
		return recomputeSaleTotal(tx, line.SaleID)
	})
}
