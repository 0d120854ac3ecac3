package billing

import (
	"testing"
)

func TestBreakdownGroupsByRateDescending(t *testing.T) {
	lines := []Line{
		{Quantity: dec("1"), UnitPrice: dec("100"), TaxRatePercent: dec("5")},
		{Quantity: dec("2"), UnitPrice: dec("50"), TaxRatePercent: dec("18")},
		{Quantity: dec("1"), UnitPrice: dec("200"), Discount: dec("20"), TaxRatePercent: dec("18")},
		{Quantity: dec("1"), UnitPrice: dec("30"), TaxRatePercent: dec("0")},
	}

	groups := Breakdown(lines, true)

	if len(groups) != 3 {
		t.Fatalf("expected 3 rate groups, got %d", len(groups))
	}

	assertDecEqual(t, "groups[0].Rate", groups[0].Rate, dec("18"))
	assertDecEqual(t, "groups[1].Rate", groups[1].Rate, dec("5"))
	assertDecEqual(t, "groups[2].Rate", groups[2].Rate, dec("0"))

	// 18% bucket: 100 + 180 taxable, split into two 9% components of 25.20.
	assertDecEqual(t, "18% taxable", groups[0].Taxable, dec("280"))
	assertDecEqual(t, "18% component rate", groups[0].ComponentRate, dec("9"))
	assertDecEqual(t, "18% component tax", groups[0].ComponentTax, dec("25.2"))
	assertDecEqual(t, "18% total tax", groups[0].TotalTax, dec("50.4"))

	// Zero-rated bucket carries taxable amount but no tax components.
	assertDecEqual(t, "0% taxable", groups[2].Taxable, dec("30"))
	assertDecEqual(t, "0% total tax", groups[2].TotalTax, dec("0"))
}

func TestBreakdownWithoutTax(t *testing.T) {
	lines := []Line{
		{Quantity: dec("1"), UnitPrice: dec("100"), TaxRatePercent: dec("18")},
	}

	groups := Breakdown(lines, false)

	if len(groups) != 1 {
		t.Fatalf("expected 1 rate group, got %d", len(groups))
	}
	assertDecEqual(t, "taxable", groups[0].Taxable, dec("100"))
	assertDecEqual(t, "total tax", groups[0].TotalTax, dec("0"))
}

func TestBreakdownMatchesComputeTaxTotal(t *testing.T) {
	lines := []Line{
		{Quantity: dec("3"), UnitPrice: dec("12.40"), Discount: dec("1"), TaxRatePercent: dec("12")},
		{Quantity: dec("1.25"), UnitPrice: dec("80"), TaxRatePercent: dec("12")},
		{Quantity: dec("2"), UnitPrice: dec("9.99"), TaxRatePercent: dec("5")},
	}

	totals := Compute(lines, NoDiscount(), true)

	var sum = dec("0")
	for _, g := range Breakdown(lines, true) {
		sum = sum.Add(g.TotalTax)
	}

	assertDecEqual(t, "breakdown tax sum", sum, totals.TaxTotal)
}
