package cart

import "github.com/shopspring/decimal"

// DefaultTaxRate is the flat tax applied to every cart subtotal.
var DefaultTaxRate = decimal.RequireFromString("0.10")

// Totals is the price breakdown for a cart. Amounts are exact decimals;
// rounding to two places happens once, when the DTO is built for output.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives subtotal, shipping, tax, and total from line items.
// Shipping is always zero (flat free-shipping policy).
func ComputeTotals(items []LineItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromInt(int64(item.UnitPriceCents)).
			Shift(-2).
			Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	shipping := decimal.Zero
	tax := subtotal.Mul(taxRate)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// SubtotalCents returns the subtotal rounded to whole cents.
func (t Totals) SubtotalCents() int {
	return int(t.Subtotal.Shift(2).Round(0).IntPart())
}

// ShippingCents returns the shipping amount rounded to whole cents.
func (t Totals) ShippingCents() int {
	return int(t.Shipping.Shift(2).Round(0).IntPart())
}

// TaxCents returns the tax amount rounded to whole cents.
func (t Totals) TaxCents() int {
	return int(t.Tax.Shift(2).Round(0).IntPart())
}

// TotalCents returns the grand total rounded to whole cents.
func (t Totals) TotalCents() int {
	return int(t.Total.Shift(2).Round(0).IntPart())
}
