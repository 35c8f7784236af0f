package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/internal/models"
)

// Parent totals are always recomputed from the lines currently persisted in
// the same transaction, never adjusted incrementally. Recomputing twice with
// no line changes is therefore a no-op.

func recomputeSaleTotal(tx *gorm.DB, saleID uint) error {
	var lines []models.SaleLine
	if err := tx.Where("sale_id = ?", saleID).Find(&lines).Error; err != nil {
		return err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return tx.Model(&models.Sale{}).Where("id = ?", saleID).Update("total", total).Error
}

func recomputePurchaseTotals(tx *gorm.DB, purchaseID uint) error {
	var lines []models.PurchaseLine
	if err := tx.Where("purchase_id = ?", purchaseID).Find(&lines).Error; err != nil {
		return err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	// No tax/discount modeling yet: subtotal and total carry the same value.
	return tx.Model(&models.Purchase{}).Where("id = ?", purchaseID).
		Updates(map[string]any{"subtotal": total, "total": total}).Error
}
