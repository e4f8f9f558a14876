// Package pricing computes line and cart totals in fixed-point decimal.
package pricing

import "github.com/shopspring/decimal"

// Line is anything with a unit price and a quantity.
type Line interface {
	UnitPrice() decimal.Decimal
	Qty() int
}

func LineTotal(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

func Total[L Line](lines []L) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.UnitPrice(), l.Qty()))
	}
	return total
}

// Money renders an amount with exactly two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
