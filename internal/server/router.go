package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/jrivassol/ventas-app/auth"
	"github.com/jrivassol/ventas-app/httpx"
	"github.com/jrivassol/ventas-app/internal/cache"
	"github.com/jrivassol/ventas-app/internal/handlers"
	"github.com/jrivassol/ventas-app/internal/models"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, c *cache.Cache) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	protected := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	// Collection routes: GET lists, POST creates.
	collection := func(list, create http.HandlerFunc) http.Handler {
		return protected(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		})
	}

	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	ch := handlers.NewCustomerHandler(db)
	mux.Handle("/customers", collection(ch.List, ch.Create))
	mux.Handle("/customers/update", protected(ch.Update))
	mux.Handle("/customers/delete", protected(ch.Delete))

	bh := handlers.NewBrandHandler(db)
	mux.Handle("/brands", collection(bh.List, bh.Create))
	mux.Handle("/brands/update", protected(bh.Update))
	mux.Handle("/brands/delete", protected(bh.Delete))

	cth := handlers.NewCategoryHandler(db)
	mux.Handle("/categories", collection(cth.List, cth.Create))
	mux.Handle("/categories/update", protected(cth.Update))
	mux.Handle("/categories/delete", protected(cth.Delete))

	sh := handlers.NewSupplierHandler(db)
	mux.Handle("/suppliers", collection(sh.List, sh.Create))
	mux.Handle("/suppliers/update", protected(sh.Update))
	mux.Handle("/suppliers/delete", protected(sh.Delete))

	ph := handlers.NewProductHandler(db)
	mux.Handle("/products", collection(ph.List, ph.Create))
	mux.Handle("/products/update", protected(ph.Update))
	mux.Handle("/products/delete", protected(ph.Delete))
	mux.Handle("/products/import", protected(ph.Import))

	sales := handlers.NewSaleHandler(db)
	mux.Handle("/sales", collection(sales.List, sales.Create))
	mux.Handle("/sales/delete", protected(sales.Delete))
	mux.Handle("/sales/lines", protected(sales.SaveLine))
	mux.Handle("/sales/lines/delete", protected(sales.DeleteLine))

	purchases := handlers.NewPurchaseHandler(db)
	mux.Handle("/purchases", collection(purchases.List, purchases.Create))
	mux.Handle("/purchases/delete", protected(purchases.Delete))
	mux.Handle("/purchases/lines", protected(purchases.SaveLine))
	mux.Handle("/purchases/lines/delete", protected(purchases.DeleteLine))

	dash := handlers.NewDashboardHandler(db, c)
	mux.Handle("/dashboard", protected(dash.Stats))

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
