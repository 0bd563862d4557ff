package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/tunbiz/gestion/internal/handlers"
	"github.com/tunbiz/gestion/internal/httpx"
	"github.com/tunbiz/gestion/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check (SELECT 1); details stay out of the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	orderSvc := services.NewOrderService()
	handlers.NewOrderHandler(db, orderSvc).Register(mux)
	handlers.NewClientHandler(db).Register(mux)
	handlers.NewProductHandler(db).Register(mux)
	handlers.NewSupplierHandler(db).Register(mux)
	handlers.NewStockHandler(db).Register(mux)
	handlers.NewToolHandler(db).Register(mux)
	handlers.NewEmployeeHandler(db).Register(mux)
	handlers.NewCompanyHandler(db).Register(mux)
	handlers.NewTaxHandler(db).Register(mux)
	handlers.NewDashboardHandler(services.NewDashboardService(db)).Register(mux)

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
