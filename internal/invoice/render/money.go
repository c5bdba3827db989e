package render

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/hotelbill/internal/invoice/domain"
)

const defaultCurrency = "INR"

var currencySymbols = map[string]string{
	"INR": "₹",
}

// FormatMoney renders amount rounded to two places with Indian digit
// grouping, e.g. ₹1,23,456.78.
func FormatMoney(amount decimal.Decimal, currency string) string {
	currency = normalizeCurrency(currency)
	prefix := currency + " "
	if symbol, ok := currencySymbols[currency]; ok {
		prefix = symbol
	}
	return formatGrouped(amount, prefix)
}

// FormatMoneyCode is FormatMoney with the ISO code in place of the symbol,
// for outputs limited to Latin-1 fonts.
func FormatMoneyCode(amount decimal.Decimal, currency string) string {
	return formatGrouped(amount, normalizeCurrency(currency)+" ")
}

func formatGrouped(amount decimal.Decimal, prefix string) string {
	rounded := amount.Round(2)
	fixed := rounded.Abs().StringFixed(2)

	intPart, frac := fixed, "00"
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart, frac = fixed[:dot], fixed[dot+1:]
	}

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + prefix + groupIndian(intPart) + "." + frac
}

// groupIndian groups the last three digits, then pairs: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return defaultCurrency
	}
	return currency
}

func formatQuantity(value decimal.Decimal) string {
	return value.String()
}

func formatPercent(value decimal.Decimal) string {
	return value.String() + "%"
}

func formatDateTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("02 Jan 2006, 15:04")
}

func orderTypeLabel(value invoicedomain.OrderType) string {
	switch value {
	case invoicedomain.OrderTypeDineIn:
		return "Dine-in"
	case invoicedomain.OrderTypeTakeaway:
		return "Takeaway"
	case invoicedomain.OrderTypeDelivery:
		return "Delivery"
	default:
		return string(value)
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
