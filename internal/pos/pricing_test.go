package pos

import (
	"testing"

	"github.com/Marcial-ar/tpv/internal/domain"
)

func TestPricer_Totals(t *testing.T) {
	pricer := NewPricer(DefaultTaxRate)

	tests := []struct {
		name     string
		lines    []domain.OrderLine
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "empty draft",
			subtotal: "0",
			tax:      "0",
			total:    "0",
		},
		{
			name: "single line",
			lines: []domain.OrderLine{
				{ProductID: "p1", Quantity: 5, UnitPrice: price("1.32"), Total: price("6.60")},
			},
			subtotal: "6.60",
			tax:      "0.66",
			total:    "7.26",
		},
		{
			name: "two lines",
			lines: []domain.OrderLine{
				{ProductID: "p1", Quantity: 2, UnitPrice: price("2.50"), Total: price("5.00")},
				{ProductID: "p2", Quantity: 1, UnitPrice: price("5.00"), Total: price("5.00")},
			},
			subtotal: "10.00",
			tax:      "1.00",
			total:    "11.00",
		},
		{
			name: "tax rounds half away from zero",
			lines: []domain.OrderLine{
				{ProductID: "p1", Quantity: 1, UnitPrice: price("0.05"), Total: price("0.05")},
			},
			subtotal: "0.05",
			tax:      "0.01",
			total:    "0.06",
		},
		{
			name: "tax rounds down below half",
			lines: []domain.OrderLine{
				{ProductID: "p1", Quantity: 1, UnitPrice: price("1.04"), Total: price("1.04")},
			},
			subtotal: "1.04",
			tax:      "0.10",
			total:    "1.14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricer.Totals(tt.lines)
			if !got.Subtotal.Equal(price(tt.subtotal)) {
				t.Errorf("expected subtotal %s, got %s", tt.subtotal, got.Subtotal)
			}
			if !got.TaxAmount.Equal(price(tt.tax)) {
				t.Errorf("expected tax %s, got %s", tt.tax, got.TaxAmount)
			}
			if !got.Total.Equal(price(tt.total)) {
				t.Errorf("expected total %s, got %s", tt.total, got.Total)
			}
		})
	}
}

func TestPricer_CustomRate(t *testing.T) {
	pricer := NewPricer(price("0.21"))
	got := pricer.Totals([]domain.OrderLine{
		{ProductID: "p1", Quantity: 1, UnitPrice: price("10.00"), Total: price("10.00")},
	})
	if !got.TaxAmount.Equal(price("2.10")) {
		t.Errorf("expected tax 2.10, got %s", got.TaxAmount)
	}
	if !got.Total.Equal(price("12.10")) {
		t.Errorf("expected total 12.10, got %s", got.Total)
	}
}

func TestParseZonePolicy(t *testing.T) {
	for _, s := range []string{"relaxed", "strict"} {
		if _, err := ParseZonePolicy(s); err != nil {
			t.Errorf("expected %q to parse, got %v", s, err)
		}
	}
	if _, err := ParseZonePolicy("lenient"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
