// Package pricing computes order monetary totals (HT, TVA, TTC) and the
// withholding-tax deduction. All computations are pure, keep full
// decimal precision internally and round only at the display/storage
// boundary, so aggregate totals match line-by-line backends exactly.
package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tunbiz/gestion/internal/validation"
)

var hundred = decimal.NewFromInt(100)

// ValidationError reports malformed numeric input. The computation that
// produced it returned no partial result.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid pricing input: %s", strings.Join(fields, ", "))
}

func newValidationError(v validation.Violations) error {
	return &ValidationError{Violations: v}
}

// LineInput is one order line as entered: a quantity of a product at a
// unit price, with an optional discount, taxed at a VAT rate. Rates are
// percentages in [0,100].
type LineInput struct {
	Quantity     int64
	UnitPrice    decimal.Decimal
	DiscountRate decimal.Decimal
	VATRate      decimal.Decimal
}

func (in LineInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.PositiveInt("quantity", in.Quantity, v)
	validation.NonNegative("unit_price", in.UnitPrice, v)
	validation.Percent("discount_rate", in.DiscountRate, v)
	validation.Percent("vat_rate", in.VATRate, v)
	return v
}

// LineTotals carries unrounded amounts. Use Rounded before displaying
// or persisting at 2 decimals.
type LineTotals struct {
	Gross     decimal.Decimal
	Discount  decimal.Decimal
	TotalHT   decimal.Decimal
	VATAmount decimal.Decimal
	TotalTTC  decimal.Decimal
}

// Rounded rounds HT and VAT at 2 decimals half-up and rebuilds TTC as
// their sum, so TotalTTC == TotalHT + VATAmount holds after rounding.
func (t LineTotals) Rounded() LineTotals {
	ht := Round2(t.TotalHT)
	vat := Round2(t.VATAmount)
	return LineTotals{
		Gross:     Round2(t.Gross),
		Discount:  Round2(t.Discount),
		TotalHT:   ht,
		VATAmount: vat,
		TotalTTC:  ht.Add(vat),
	}
}

// OrderTotals aggregates unrounded line totals.
type OrderTotals struct {
	TotalHT  decimal.Decimal
	TotalTVA decimal.Decimal
	TotalTTC decimal.Decimal
}

// Rounded rounds HT and TVA at 2 decimals and rebuilds TTC as their sum.
func (t OrderTotals) Rounded() OrderTotals {
	ht := Round2(t.TotalHT)
	tva := Round2(t.TotalTVA)
	return OrderTotals{TotalHT: ht, TotalTVA: tva, TotalTTC: ht.Add(tva)}
}

// Round2 rounds a monetary amount to 2 decimal places, half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	// decimal.Round is half away from zero, which is half-up for the
	// non-negative amounts this engine produces.
	return d.Round(2)
}

// ComputeLineTotals derives the monetary amounts of one line:
//
//	gross    = quantity × unit_price
//	discount = gross × discount_rate / 100
//	total_ht = gross − discount
//	tva      = total_ht × vat_rate / 100
//	ttc      = total_ht + tva
//
// Inputs outside their domain (quantity < 1, negative price, rates
// outside [0,100]) are rejected with *ValidationError; values are never
// clamped.
func ComputeLineTotals(in LineInput) (LineTotals, error) {
	if v := in.validate(); !v.Empty() {
		return LineTotals{}, newValidationError(v)
	}
	gross := decimal.NewFromInt(in.Quantity).Mul(in.UnitPrice)
	discount := gross.Mul(in.DiscountRate).Div(hundred)
	ht := gross.Sub(discount)
	vat := ht.Mul(in.VATRate).Div(hundred)
	return LineTotals{
		Gross:     gross,
		Discount:  discount,
		TotalHT:   ht,
		VATAmount: vat,
		TotalTTC:  ht.Add(vat),
	}, nil
}

// ComputeOrderTotals sums unrounded per-line values over the item list.
// An empty list is a valid order with all-zero totals. Any invalid line
// rejects the whole computation; no partial totals are produced.
func ComputeOrderTotals(items []LineInput) (OrderTotals, error) {
	totals := OrderTotals{
		TotalHT:  decimal.Zero,
		TotalTVA: decimal.Zero,
		TotalTTC: decimal.Zero,
	}
	for i, in := range items {
		if v := in.validate(); !v.Empty() {
			scoped := validation.Violations{}
			for field, code := range v {
				scoped[fmt.Sprintf("items[%d].%s", i, field)] = code
			}
			return OrderTotals{}, newValidationError(scoped)
		}
	}
	for _, in := range items {
		lt, err := ComputeLineTotals(in)
		if err != nil {
			return OrderTotals{}, err
		}
		totals.TotalHT = totals.TotalHT.Add(lt.TotalHT)
		totals.TotalTVA = totals.TotalTVA.Add(lt.VATAmount)
		totals.TotalTTC = totals.TotalTTC.Add(lt.TotalTTC)
	}
	return totals, nil
}

// WithholdingStatus distinguishes the three display states; excluded
// and not-applicable produce the same numbers.
type WithholdingStatus string

const (
	WithholdingApplied       WithholdingStatus = "applied"
	WithholdingExcluded      WithholdingStatus = "excluded"
	WithholdingNotApplicable WithholdingStatus = "not_applicable"
)

// WithholdingInput is the order-level withholding configuration applied
// to an already-aggregated TTC total.
type WithholdingInput struct {
	TotalTTC        decimal.Decimal
	Rate            decimal.Decimal // percentage in [0,100]
	Applied         bool
	Excluded        bool
	ExclusionReason string
}

// WithholdingResult carries the deduction and the net amount to pay.
type WithholdingResult struct {
	Status          WithholdingStatus
	Amount          decimal.Decimal
	NetPayable      decimal.Decimal
	ExclusionReason string
}

// ComputeWithholding derives the retenue à la source deduction.
// Applied and Excluded are mutually exclusive; both set is rejected.
// When applied, Amount = round2(TTC × rate / 100) and
// NetPayable = TTC − Amount. When excluded or not applicable, Amount is
// zero and the full TTC is payable; the exclusion reason is opaque
// free text carried through verbatim.
func ComputeWithholding(in WithholdingInput) (WithholdingResult, error) {
	v := validation.Violations{}
	if in.Applied && in.Excluded {
		v["withholding_tax_applied"] = "mutually_exclusive_with_excluded"
	}
	validation.NonNegative("total_ttc", in.TotalTTC, v)
	validation.Percent("withholding_tax_rate", in.Rate, v)
	if !v.Empty() {
		return WithholdingResult{}, newValidationError(v)
	}
	switch {
	case in.Applied:
		amount := Round2(in.TotalTTC.Mul(in.Rate).Div(hundred))
		return WithholdingResult{
			Status:     WithholdingApplied,
			Amount:     amount,
			NetPayable: in.TotalTTC.Sub(amount),
		}, nil
	case in.Excluded:
		return WithholdingResult{
			Status:          WithholdingExcluded,
			Amount:          decimal.Zero,
			NetPayable:      in.TotalTTC,
			ExclusionReason: in.ExclusionReason,
		}, nil
	default:
		return WithholdingResult{
			Status:     WithholdingNotApplicable,
			Amount:     decimal.Zero,
			NetPayable: in.TotalTTC,
		}, nil
	}
}
