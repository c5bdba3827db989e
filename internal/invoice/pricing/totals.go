// Package pricing computes invoice line and invoice totals.
//
// All arithmetic is exact decimal arithmetic. Nothing here rounds; rounding
// is a presentation concern handled by the receipt renderers.
package pricing

import (
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
)

type LineTotals struct {
	ExclTax decimal.Decimal `json:"line_total_excl_tax"`
	Tax     decimal.Decimal `json:"line_tax_amount"`
	InclTax decimal.Decimal `json:"line_total_incl_tax"`
}

type InvoiceTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeLineTotals prices quantity units of product less discount. A nil
// product yields zero totals so partially entered bills can still be quoted.
func ComputeLineTotals(product *catalogdomain.ProductView, quantity, discount decimal.Decimal) LineTotals {
	if product == nil {
		return LineTotals{ExclTax: decimal.Zero, Tax: decimal.Zero, InclTax: decimal.Zero}
	}
	return FromSnapshot(product.CurrentUnitPrice, product.TaxRate, quantity, discount)
}

// FromSnapshot prices a line from already captured unit price and tax rate.
// Negative results are kept as is.
func FromSnapshot(unitPrice, taxRate, quantity, discount decimal.Decimal) LineTotals {
	excl := unitPrice.Mul(quantity).Sub(discount)
	// Shift keeps the percentage division exact; Div would round at DivisionPrecision.
	tax := excl.Mul(taxRate).Shift(-2)
	return LineTotals{
		ExclTax: excl,
		Tax:     tax,
		InclTax: excl.Add(tax),
	}
}

// ComputeInvoiceTotals sums lines element-wise. No lines gives all zeros.
func ComputeInvoiceTotals(lines []LineTotals) InvoiceTotals {
	out := InvoiceTotals{Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
	for _, line := range lines {
		out.Subtotal = out.Subtotal.Add(line.ExclTax)
		out.Tax = out.Tax.Add(line.Tax)
		out.Total = out.Total.Add(line.InclTax)
	}
	return out
}
