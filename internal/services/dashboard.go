package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tunbiz/gestion/internal/models"
)

// DashboardService aggregates order figures for the overview screens.
// Aggregation is display-only: missing values default to zero here,
// never inside the pricing engine.
type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService { return &DashboardService{DB: db} }

// PendingOrderCount counts CONFIRMED orders awaiting treatment.
// The front-end labels this figure "draft_orders_count".
func (s *DashboardService) PendingOrderCount() (int64, error) {
	var count int64
	err := s.DB.Model(&models.PurchaseOrder{}).Where("status = ?", models.OrderStatusConfirmed).Count(&count).Error
	return count, err
}

// MonthlySales returns TTC totals per month (index 0 = January) for
// orders paid in the given year.
func (s *DashboardService) MonthlySales(year int) ([12]float64, error) {
	var totals [12]float64
	var orders []models.PurchaseOrder
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	err := s.DB.
		Where("payment_date IS NOT NULL AND payment_date >= ? AND payment_date < ?", start, end).
		Find(&orders).Error
	if err != nil {
		return totals, err
	}
	for _, o := range orders {
		if o.PaymentDate == nil {
			continue
		}
		f, _ := o.TotalTTC.Float64()
		totals[o.PaymentDate.Month()-1] += f
	}
	return totals, nil
}

// StatusCounts returns order counts for the statuses the dashboard
// displays (DRAFT, PAID, CANCELLED).
func (s *DashboardService) StatusCounts() (map[string]int64, error) {
	counts := map[string]int64{
		models.OrderStatusDraft:     0,
		models.OrderStatusPaid:      0,
		models.OrderStatusCancelled: 0,
	}
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.DB.Model(&models.PurchaseOrder{}).
		Select("status, count(id) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if _, ok := counts[r.Status]; ok {
			counts[r.Status] = r.Count
		}
	}
	return counts, nil
}

// TotalProfit sums TTC over all orders, all time.
func (s *DashboardService) TotalProfit() (float64, error) {
	var orders []models.PurchaseOrder
	if err := s.DB.Select("total_ttc").Find(&orders).Error; err != nil {
		return 0, err
	}
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.TotalTTC)
	}
	f, _ := sum.Float64()
	return f, nil
}
