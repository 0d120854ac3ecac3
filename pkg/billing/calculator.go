// Package billing contains the pure tax/discount computation used by
// invoices, purchases and sales returns. Nothing in this package touches
// the database; callers feed it line items and get totals back.
package billing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line is a single cart line as the calculator sees it.
type Line struct {
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	Discount       decimal.Decimal // absolute amount off this line
	TaxRatePercent decimal.Decimal
}

// DiscountKind tags the bill-level discount input.
type DiscountKind int

const (
	DiscountNone DiscountKind = iota
	DiscountAmount
	DiscountPercent
)

// Discount is the bill-level discount as a tagged value. Using a single
// tagged type instead of two nullable fields removes the "which one wins"
// ambiguity: callers that have both must go through ResolveDiscount, which
// gives the absolute amount precedence.
type Discount struct {
	kind  DiscountKind
	value decimal.Decimal
}

// NoDiscount returns the zero discount.
func NoDiscount() Discount {
	return Discount{kind: DiscountNone}
}

// AmountDiscount returns an absolute bill-level discount.
func AmountDiscount(v decimal.Decimal) Discount {
	return Discount{kind: DiscountAmount, value: v}
}

// PercentDiscount returns a percentage bill-level discount.
func PercentDiscount(p decimal.Decimal) Discount {
	return Discount{kind: DiscountPercent, value: p}
}

// ResolveDiscount maps the legacy two-field request shape onto a Discount.
// A non-zero amount always wins over a percentage.
func ResolveDiscount(amount, percent decimal.Decimal) Discount {
	if !amount.IsZero() {
		return AmountDiscount(amount)
	}
	if !percent.IsZero() {
		return PercentDiscount(percent)
	}
	return NoDiscount()
}

// Kind reports which variant this discount is.
func (d Discount) Kind() DiscountKind {
	return d.kind
}

// Value returns the raw amount or percentage.
func (d Discount) Value() decimal.Decimal {
	return d.value
}

// AmountFor resolves the discount to an absolute amount against the given
// subtotal.
func (d Discount) AmountFor(subtotal decimal.Decimal) decimal.Decimal {
	switch d.kind {
	case DiscountAmount:
		return d.value
	case DiscountPercent:
		return subtotal.Mul(d.value).Div(hundred)
	default:
		return decimal.Zero
	}
}

// LineTotals is the computed breakdown of one line.
type LineTotals struct {
	Subtotal decimal.Decimal // unit price x quantity
	Taxable  decimal.Decimal // subtotal minus the line discount
	Tax      decimal.Decimal // zero when tax is not included
	Total    decimal.Decimal // taxable plus tax
}

// Totals is the computed result for a whole cart.
type Totals struct {
	Subtotal          decimal.Decimal
	LineDiscountTotal decimal.Decimal
	BillDiscount      decimal.Decimal
	TaxableAmount     decimal.Decimal // subtotal - line discounts - bill discount
	TaxTotal          decimal.Decimal
	PreRoundTotal     decimal.Decimal
	Total             decimal.Decimal // rounded to the nearest whole currency unit
	RoundOff          decimal.Decimal // total - pre-round total
	Lines             []LineTotals
}

// Compute derives invoice totals from a cart.
//
// Tax is computed per line on the line's taxable amount (after the line
// discount, before the bill-level discount), so the bill discount never
// shrinks the tax base. The final total is rounded half away from zero to
// the nearest whole currency unit; every intermediate value keeps full
// precision. Negative results are legal and returned as-is: a discount
// larger than the subtotal is a validation concern for the caller, not for
// the arithmetic.
func Compute(lines []Line, discount Discount, includeTax bool) Totals {
	t := Totals{Lines: make([]LineTotals, 0, len(lines))}

	for _, line := range lines {
		lineSubtotal := line.UnitPrice.Mul(line.Quantity)
		lineTaxable := lineSubtotal.Sub(line.Discount)

		lineTax := decimal.Zero
		if includeTax {
			lineTax = lineTaxable.Mul(line.TaxRatePercent).Div(hundred)
		}

		t.Lines = append(t.Lines, LineTotals{
			Subtotal: lineSubtotal,
			Taxable:  lineTaxable,
			Tax:      lineTax,
			Total:    lineTaxable.Add(lineTax),
		})

		t.Subtotal = t.Subtotal.Add(lineSubtotal)
		t.LineDiscountTotal = t.LineDiscountTotal.Add(line.Discount)
		t.TaxTotal = t.TaxTotal.Add(lineTax)
	}

	t.BillDiscount = discount.AmountFor(t.Subtotal)
	t.TaxableAmount = t.Subtotal.Sub(t.LineDiscountTotal).Sub(t.BillDiscount)
	t.PreRoundTotal = t.TaxableAmount.Add(t.TaxTotal)
	t.Total = t.PreRoundTotal.Round(0)
	t.RoundOff = t.Total.Sub(t.PreRoundTotal)

	return t
}
