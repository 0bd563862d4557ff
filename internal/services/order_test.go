package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tunbiz/gestion/internal/models"
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return v
}

func item(t *testing.T, qty int64, price, remise, tva string) models.PurchaseOrderItem {
	t.Helper()
	return models.PurchaseOrderItem{
		Quantity:  qty,
		UnitPrice: d(t, price),
		Remise:    d(t, remise),
		TVARate:   d(t, tva),
	}
}

func residentCompany() models.Client {
	return models.Client{Name: "STE Test", ClientType: models.ClientTypeCompany, TaxRegime: models.TaxRegimeReal, IsResident: true}
}

func TestRecomputeStoresLineAndOrderTotals(t *testing.T) {
	svc := NewOrderService()
	order := models.PurchaseOrder{
		OrderType: models.OrderTypeGoods,
		Client:    residentCompany(),
		Items: []models.PurchaseOrderItem{
			item(t, 3, "10.00", "10", "19"),
			item(t, 3, "10.00", "10", "19"),
		},
	}
	if err := svc.Recompute(&order); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := order.Items[0].TotalHT; !got.Equal(d(t, "27.000")) {
		t.Fatalf("item total_ht: %s", got)
	}
	if got := order.Items[0].TVAAmount; !got.Equal(d(t, "5.130")) {
		t.Fatalf("item tva_amount: %s", got)
	}
	if !order.TotalHT.Equal(d(t, "54.000")) || !order.TotalTVA.Equal(d(t, "10.260")) || !order.TotalTTC.Equal(d(t, "64.260")) {
		t.Fatalf("order totals: ht=%s tva=%s ttc=%s", order.TotalHT, order.TotalTVA, order.TotalTTC)
	}
}

func TestRecomputeEmptyOrderHasZeroTotals(t *testing.T) {
	svc := NewOrderService()
	order := models.PurchaseOrder{OrderType: models.OrderTypeGoods, Client: residentCompany()}
	if err := svc.Recompute(&order); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if !order.TotalTTC.IsZero() {
		t.Fatalf("expected zero TTC, got %s", order.TotalTTC)
	}
	// below the 1000D threshold
	if !order.WithholdingTaxExcluded || order.WithholdingExclusionReason != "Montant inférieur à 1000D TTC" {
		t.Fatalf("expected threshold exclusion, got excluded=%v reason=%q", order.WithholdingTaxExcluded, order.WithholdingExclusionReason)
	}
}

func TestRecomputeRejectsInvalidItem(t *testing.T) {
	svc := NewOrderService()
	order := models.PurchaseOrder{
		OrderType: models.OrderTypeGoods,
		Client:    residentCompany(),
		Items:     []models.PurchaseOrderItem{item(t, 1, "10.00", "150", "19")},
	}
	if err := svc.Recompute(&order); err == nil {
		t.Fatal("expected validation error for remise > 100")
	}
}

func TestDetermineWithholdingAppliedAboveThreshold(t *testing.T) {
	svc := NewOrderService()
	order := models.PurchaseOrder{
		OrderType: models.OrderTypeGoods,
		Client:    residentCompany(),
		TotalTTC:  d(t, "1500.000"),
	}
	if err := svc.DetermineWithholding(&order); err != nil {
		t.Fatalf("determine: %v", err)
	}
	if !order.WithholdingTaxApplied {
		t.Fatal("expected withholding applied")
	}
	if !order.WithholdingTaxRate.Equal(d(t, "1.5")) {
		t.Fatalf("rate: %s", order.WithholdingTaxRate)
	}
	// 1500 × 1.5% = 22.50
	if !order.WithholdingTaxAmount.Equal(d(t, "22.50")) {
		t.Fatalf("amount: %s", order.WithholdingTaxAmount)
	}
	if !order.NetPayable().Equal(d(t, "1477.500")) {
		t.Fatalf("net payable: %s", order.NetPayable())
	}
}

func TestDetermineWithholdingExclusions(t *testing.T) {
	cases := []struct {
		name   string
		order  models.PurchaseOrder
		reason string
	}{
		{
			"subscription order type",
			models.PurchaseOrder{OrderType: models.OrderTypeSubscription, Client: residentCompany(), TotalTTC: mustDec("5000")},
			"Exclusion pour Abonnement",
		},
		{
			"insurance order type",
			models.PurchaseOrder{OrderType: models.OrderTypeInsurance, Client: residentCompany(), TotalTTC: mustDec("5000")},
			"Exclusion pour Assurance",
		},
		{
			"leasing order type",
			models.PurchaseOrder{OrderType: models.OrderTypeLeasing, Client: residentCompany(), TotalTTC: mustDec("5000")},
			"Exclusion pour Leasing",
		},
		{
			"non resident client",
			models.PurchaseOrder{OrderType: models.OrderTypeGoods, Client: models.Client{ClientType: models.ClientTypeNonResident, IsResident: false}, TotalTTC: mustDec("5000")},
			"Client non-résident",
		},
		{
			"exempt client",
			models.PurchaseOrder{OrderType: models.OrderTypeGoods, Client: models.Client{ClientType: models.ClientTypeCompany, TaxRegime: models.TaxRegimeExempt, IsResident: true}, TotalTTC: mustDec("5000")},
			"Client exonéré d'impôt",
		},
		{
			"below threshold",
			models.PurchaseOrder{OrderType: models.OrderTypeGoods, Client: residentCompany(), TotalTTC: mustDec("999.999")},
			"Montant inférieur à 1000D TTC",
		},
	}
	svc := NewOrderService()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.DetermineWithholding(&tc.order); err != nil {
				t.Fatalf("determine: %v", err)
			}
			if tc.order.WithholdingTaxApplied {
				t.Fatal("should not be applied")
			}
			if !tc.order.WithholdingTaxExcluded {
				t.Fatal("should be excluded")
			}
			if tc.order.WithholdingExclusionReason != tc.reason {
				t.Fatalf("reason: got %q want %q", tc.order.WithholdingExclusionReason, tc.reason)
			}
			if !tc.order.WithholdingTaxAmount.IsZero() {
				t.Fatalf("amount must be zero, got %s", tc.order.WithholdingTaxAmount)
			}
		})
	}
}

// Invariant: the determination never leaves both flags set.
func TestDetermineWithholdingFlagsMutuallyExclusive(t *testing.T) {
	svc := NewOrderService()
	orders := []models.PurchaseOrder{
		{OrderType: models.OrderTypeGoods, Client: residentCompany(), TotalTTC: mustDec("1500")},
		{OrderType: models.OrderTypeSubscription, Client: residentCompany(), TotalTTC: mustDec("1500")},
		{OrderType: models.OrderTypeGoods, Client: models.Client{ClientType: models.ClientTypeNonResident}, TotalTTC: mustDec("1500")},
	}
	for i := range orders {
		if err := svc.DetermineWithholding(&orders[i]); err != nil {
			t.Fatalf("determine %d: %v", i, err)
		}
		if orders[i].WithholdingTaxApplied && orders[i].WithholdingTaxExcluded {
			t.Fatalf("order %d: both flags set", i)
		}
	}
}

func TestDetermineWithholdingPublicClient(t *testing.T) {
	svc := NewOrderService()
	order := models.PurchaseOrder{
		OrderType: models.OrderTypeGoods,
		Client:    models.Client{ClientType: models.ClientTypeGovernment, IsResident: true},
		TotalTTC:  mustDec("2000.000"),
	}
	if err := svc.DetermineWithholding(&order); err != nil {
		t.Fatalf("determine: %v", err)
	}
	if !order.WithholdingTaxApplied {
		t.Fatal("public client above threshold must be subject")
	}
}

func TestApplicableRateSpecialCases(t *testing.T) {
	svc := NewOrderService()
	cases := []struct {
		orderType string
		regime    string
		want      string
	}{
		{models.OrderTypeFees, models.TaxRegimeReal, "2.5"},
		{models.OrderTypeFees, models.TaxRegimeSimplified, "10.0"},
		{models.OrderTypeRent, models.TaxRegimeReal, "10.0"},
		{models.OrderTypeCommission, models.TaxRegimeReal, "5.0"},
		{models.OrderTypeGoods, models.TaxRegimeReal, "1.5"},
		{models.OrderTypeServices, models.TaxRegimeReal, "1.5"},
		{models.OrderTypeWorks, models.TaxRegimeReal, "1.5"},
	}
	for _, tc := range cases {
		order := models.PurchaseOrder{OrderType: tc.orderType, Client: models.Client{TaxRegime: tc.regime}}
		if got := svc.ApplicableRate(&order); !got.Equal(mustDec(tc.want)) {
			t.Fatalf("%s/%s: got %s want %s", tc.orderType, tc.regime, got, tc.want)
		}
	}
}

// mustDec builds a decimal for table literals.
func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
