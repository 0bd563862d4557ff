package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tunbiz/gestion/internal/models"
	"github.com/tunbiz/gestion/internal/pricing"
)

// OrderService encapsulates order-related business logic: totals
// recomputation and the retenue à la source determination rules.
// DB access stays in handlers.
type OrderService struct{}

func NewOrderService() *OrderService { return &OrderService{} }

// Orders below 1000 DT TTC are outside the scope of the retenue à la
// source.
var withholdingThreshold = decimal.RequireFromString("1000.000")

// Default and special rates (percentages).
var (
	rateDefault     = decimal.RequireFromString("1.5")
	rateFeesReal    = decimal.RequireFromString("2.5")
	rateFeesForfait = decimal.RequireFromString("10.0")
	rateRent        = decimal.RequireFromString("10.0")
	rateCommission  = decimal.RequireFromString("5.0")
)

// Recompute refreshes stored per-line totals, aggregates order totals
// from unrounded line values, then re-runs the withholding
// determination. Items and Client must be preloaded. On a validation
// error nothing is modified.
func (s *OrderService) Recompute(order *models.PurchaseOrder) error {
	if order == nil {
		return nil
	}
	inputs := make([]pricing.LineInput, len(order.Items))
	lines := make([]pricing.LineTotals, len(order.Items))
	for i, it := range order.Items {
		in := pricing.LineInput{
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			DiscountRate: it.Remise,
			VATRate:      it.TVARate,
		}
		lt, err := pricing.ComputeLineTotals(in)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		inputs[i] = in
		lines[i] = lt
	}
	totals, err := pricing.ComputeOrderTotals(inputs)
	if err != nil {
		return err
	}
	for i := range order.Items {
		it := &order.Items[i]
		it.TotalHT = lines[i].TotalHT.Round(3)
		it.TVAAmount = lines[i].VATAmount.Round(3)
		it.TotalTTC = lines[i].TotalTTC.Round(3)
	}
	// Stored at 3 decimals (Dinar convention); summed unrounded first.
	order.TotalHT = totals.TotalHT.Round(3)
	order.TotalTVA = totals.TotalTVA.Round(3)
	order.TotalTTC = totals.TotalTTC.Round(3)
	return s.DetermineWithholding(order)
}

// DetermineWithholding applies the Tunisian retenue à la source rules
// to the order and writes the outcome back onto its fields. The Client
// association must be loaded.
func (s *OrderService) DetermineWithholding(order *models.PurchaseOrder) error {
	order.WithholdingTaxApplied = false
	order.WithholdingTaxExcluded = false
	order.WithholdingExclusionReason = ""
	order.WithholdingTaxAmount = decimal.Zero
	order.WithholdingTaxRate = decimal.Zero

	if reason, excluded := s.exclusionReason(order); excluded {
		order.WithholdingTaxExcluded = true
		order.WithholdingExclusionReason = reason
		return nil
	}
	if !s.isSubject(order) {
		// not excluded, not subject: "Non applicable" display state
		return nil
	}
	rate := s.ApplicableRate(order)
	res, err := pricing.ComputeWithholding(pricing.WithholdingInput{
		TotalTTC: order.TotalTTC,
		Rate:     rate,
		Applied:  true,
	})
	if err != nil {
		return err
	}
	order.WithholdingTaxApplied = true
	order.WithholdingTaxRate = rate
	order.WithholdingTaxAmount = res.Amount
	return nil
}

// exclusionReason returns the first matching explicit exclusion.
func (s *OrderService) exclusionReason(order *models.PurchaseOrder) (string, bool) {
	switch order.OrderType {
	case models.OrderTypeSubscription, models.OrderTypeInsurance, models.OrderTypeLeasing:
		return "Exclusion pour " + models.OrderTypeLabels[order.OrderType], true
	}
	if !order.Client.IsResident {
		return "Client non-résident", true
	}
	if order.Client.TaxRegime == models.TaxRegimeExempt {
		return "Client exonéré d'impôt", true
	}
	if order.TotalTTC.LessThan(withholdingThreshold) {
		return "Montant inférieur à 1000D TTC", true
	}
	return "", false
}

// isSubject assumes no explicit exclusion matched.
func (s *OrderService) isSubject(order *models.PurchaseOrder) bool {
	if order.Client.IsPublic() {
		return true
	}
	// Private entities: every order is treated as a marché.
	switch order.Client.ClientType {
	case models.ClientTypeCompany, models.ClientTypeIndividual:
		return true
	}
	return false
}

// ApplicableRate picks the special rate for the order type, defaulting
// to 1.5% for goods, services and works.
func (s *OrderService) ApplicableRate(order *models.PurchaseOrder) decimal.Decimal {
	switch order.OrderType {
	case models.OrderTypeFees:
		if order.Client.TaxRegime == models.TaxRegimeReal {
			return rateFeesReal
		}
		return rateFeesForfait
	case models.OrderTypeRent:
		return rateRent
	case models.OrderTypeCommission:
		return rateCommission
	}
	return rateDefault
}
