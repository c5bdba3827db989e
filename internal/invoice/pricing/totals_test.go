package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(price, rate string) *catalogdomain.ProductView {
	return &catalogdomain.ProductView{
		Product: catalogdomain.Product{ID: 2, Name: "Dal Makhani", CurrentUnitPrice: dec(price)},
		TaxRate: dec(rate),
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestComputeLineTotalsDalMakhani(t *testing.T) {
	got := ComputeLineTotals(product("250", "5"), dec("2"), decimal.Zero)

	assertDecimal(t, "500", got.ExclTax)
	assertDecimal(t, "25", got.Tax)
	assertDecimal(t, "525", got.InclTax)
}

func TestComputeLineTotalsFormula(t *testing.T) {
	cases := []struct {
		name                 string
		price, rate          string
		qty, discount        string
		excl, tax, inclusive string
	}{
		{"no tax", "100", "0", "3", "0", "300", "0", "300"},
		{"discounted", "80", "5", "2", "10", "150", "7.5", "157.5"},
		{"fractional quantity", "320", "5", "0.5", "0", "160", "8", "168"},
		{"high precision", "33.333", "12", "3", "0.001", "99.998", "11.99976", "111.99776"},
		{"zero quantity", "50", "12", "0", "0", "0", "0", "0"},
		{"tiny rate", "0.01", "0.01", "1", "0", "0.01", "0.000001", "0.010001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeLineTotals(product(tc.price, tc.rate), dec(tc.qty), dec(tc.discount))
			assertDecimal(t, tc.excl, got.ExclTax)
			assertDecimal(t, tc.tax, got.Tax)
			assertDecimal(t, tc.inclusive, got.InclTax)
		})
	}
}

func TestComputeLineTotalsIsExactBeyondDivisionPrecision(t *testing.T) {
	got := FromSnapshot(dec("0.00000000000000012345"), dec("7"), dec("1"), decimal.Zero)
	assertDecimal(t, "0.0000000000000000086415", got.Tax)
}

func TestComputeLineTotalsDoesNotClampNegative(t *testing.T) {
	got := ComputeLineTotals(product("20", "12"), dec("1"), dec("30"))

	assertDecimal(t, "-10", got.ExclTax)
	assertDecimal(t, "-1.2", got.Tax)
	assertDecimal(t, "-11.2", got.InclTax)
}

func TestComputeLineTotalsUnresolvedProduct(t *testing.T) {
	got := ComputeLineTotals(nil, dec("4"), dec("1"))

	assert.True(t, got.ExclTax.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.InclTax.IsZero())
}

func TestComputeInvoiceTotalsEmpty(t *testing.T) {
	got := ComputeInvoiceTotals(nil)

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestComputeInvoiceTotalsSums(t *testing.T) {
	lines := []LineTotals{
		ComputeLineTotals(product("250", "5"), dec("2"), decimal.Zero),
		ComputeLineTotals(product("50", "12"), dec("2"), decimal.Zero),
		ComputeLineTotals(nil, dec("1"), decimal.Zero),
	}
	got := ComputeInvoiceTotals(lines)

	assertDecimal(t, "600", got.Subtotal)
	assertDecimal(t, "37", got.Tax)
	assertDecimal(t, "637", got.Total)
}
