package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/httpx"
	"github.com/jrivassol/ventas-app/internal/cache"
	"github.com/jrivassol/ventas-app/internal/models"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 30 * time.Second
	lowStockThreshold = 5
)

type DashboardHandler struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewDashboardHandler(db *gorm.DB, c *cache.Cache) *DashboardHandler {
	return &DashboardHandler{DB: db, Cache: c}
}

type dashboardStats struct {
	Customers     int64            `json:"customers"`
	Products      int64            `json:"products"`
	Sales         int64            `json:"sales"`
	Purchases     int64            `json:"purchases"`
	RevenueToday  decimal.Decimal  `json:"revenue_today"`
	RevenueMonth  decimal.Decimal  `json:"revenue_month"`
	LowStock      []models.Product `json:"low_stock"`
	OutOfStock    int64            `json:"out_of_stock"`
	GeneratedAt   time.Time        `json:"generated_at"`
	FromCache     bool             `json:"from_cache"`
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	var stats dashboardStats
	if h.Cache.GetJSON(r.Context(), dashboardCacheKey, &stats) {
		stats.FromCache = true
		httpx.JSON(w, http.StatusOK, stats)
		return
	}

	h.DB.Model(&models.Customer{}).Count(&stats.Customers)
	h.DB.Model(&models.Product{}).Count(&stats.Products)
	h.DB.Model(&models.Sale{}).Count(&stats.Sales)
	h.DB.Model(&models.Purchase{}).Count(&stats.Purchases)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := h.DB.Model(&models.Sale{}).
		Where("date >= ?", today).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.RevenueToday).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "dashboard_failed", nil)
		return
	}
	if err := h.DB.Model(&models.Sale{}).
		Where("date >= ?", monthStart).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.RevenueMonth).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "dashboard_failed", nil)
		return
	}

	if err := h.DB.
		Where("stock <= ? AND stock > 0", lowStockThreshold).
		Order("stock asc").
		Limit(20).
		Find(&stats.LowStock).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "dashboard_failed", nil)
		return
	}
	h.DB.Model(&models.Product{}).Where("stock = 0").Count(&stats.OutOfStock)

	stats.GeneratedAt = now
	h.Cache.SetJSON(r.Context(), dashboardCacheKey, stats, dashboardCacheTTL)
	httpx.JSON(w, http.StatusOK, stats)
}
