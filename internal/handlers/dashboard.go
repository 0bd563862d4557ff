package handlers

import (
	"net/http"
	"time"

	"github.com/tunbiz/gestion/internal/httpx"
	"github.com/tunbiz/gestion/internal/services"
)

// DashboardHandler exposes the overview aggregations.
type DashboardHandler struct {
	Svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Svc: svc}
}

func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /dashboard/draft-orders-count", h.DraftOrdersCount)
	mux.HandleFunc("GET /dashboard/monthly-sales", h.MonthlySales)
	mux.HandleFunc("GET /dashboard/orders-status-count", h.StatusCounts)
	mux.HandleFunc("GET /dashboard/total-profit", h.TotalProfit)
}

// DraftOrdersCount keeps the historical payload name even though the
// figure counts CONFIRMED orders.
func (h *DashboardHandler) DraftOrdersCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Svc.PendingOrderCount()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_count_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"draft_orders_count": count})
}

func (h *DashboardHandler) MonthlySales(w http.ResponseWriter, r *http.Request) {
	currentYear := time.Now().Year()
	thisYear, err := h.Svc.MonthlySales(currentYear)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_aggregate_sales", nil)
		return
	}
	lastYear, err := h.Svc.MonthlySales(currentYear - 1)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_aggregate_sales", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"this_year": thisYear[:],
		"last_year": lastYear[:],
	})
}

func (h *DashboardHandler) StatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Svc.StatusCounts()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_count_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, counts)
}

func (h *DashboardHandler) TotalProfit(w http.ResponseWriter, r *http.Request) {
	total, err := h.Svc.TotalProfit()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_sum_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]float64{"total_profit": total})
}
