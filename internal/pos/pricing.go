package pos

import (
	"github.com/shopspring/decimal"

	"github.com/Marcial-ar/tpv/internal/domain"
)

// DefaultTaxRate is applied on top of line totals when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.10")

type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

type Pricer struct {
	taxRate decimal.Decimal
}

func NewPricer(taxRate decimal.Decimal) Pricer {
	return Pricer{taxRate: taxRate}
}

func (p Pricer) TaxRate() decimal.Decimal {
	return p.taxRate
}

// Totals sums the line totals and adds tax rounded to cents, half away
// from zero.
func (p Pricer) Totals(lines []domain.OrderLine) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total)
	}
	tax := subtotal.Mul(p.taxRate).Round(2)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

func lineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
