package billing

import (
	"sort"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// RateGroup is the per-rate slice of a tax breakdown. For a non-zero rate
// the tax is reported as two equal components of rate/2 each, matching the
// dual-component presentation required on printed invoices. A zero rate
// still gets a group so the untaxed amount shows up in reports.
type RateGroup struct {
	Rate          decimal.Decimal `json:"rate"`
	Taxable       decimal.Decimal `json:"taxable"`
	ComponentRate decimal.Decimal `json:"component_rate"` // rate / 2
	ComponentTax  decimal.Decimal `json:"component_tax"`  // taxable x component rate / 100
	TotalTax      decimal.Decimal `json:"total_tax"`
}

// Breakdown groups the taxable amount of a cart by tax rate, highest rate
// first. The grouping uses each line's taxable amount (after line
// discounts); the bill-level discount does not participate, consistent
// with Compute.
func Breakdown(lines []Line, includeTax bool) []RateGroup {
	byRate := make(map[string]*RateGroup)

	for _, line := range lines {
		taxable := line.UnitPrice.Mul(line.Quantity).Sub(line.Discount)
		key := line.TaxRatePercent.String()

		group, ok := byRate[key]
		if !ok {
			group = &RateGroup{Rate: line.TaxRatePercent}
			byRate[key] = group
		}
		group.Taxable = group.Taxable.Add(taxable)
	}

	groups := make([]RateGroup, 0, len(byRate))
	for _, group := range byRate {
		if includeTax && group.Rate.IsPositive() {
			group.ComponentRate = group.Rate.Div(two)
			group.ComponentTax = group.Taxable.Mul(group.ComponentRate).Div(hundred)
			group.TotalTax = group.ComponentTax.Mul(two)
		}
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Rate.GreaterThan(groups[j].Rate)
	})

	return groups
}
