package utils

import (
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithPrecision formats an amount rounded to precision places, keeping trailing zeros.
// Example: 85.425 with precision 6 returns "85.425000"
func FormatWithPrecision(amount decimal.Decimal, precision int32) string {
	return amount.StringFixed(precision)
}

// FormatAmount formats a monetary amount at the scale conversions are stored with.
func FormatAmount(amount decimal.Decimal) string {
	return FormatWithPrecision(amount, domain.ConvertedAmountScale)
}
