package services

import (
	"strings"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// maxAmountScale is the number of decimal places the amount column keeps.
const maxAmountScale = 6

// ConversionCalculator turns an amount and a rate into a conversion. It holds
// no state and performs no I/O.
type ConversionCalculator struct{}

// ParseAmount parses a caller supplied amount. Empty, unparseable and
// non-positive input fails with apperrors.ErrInvalidAmount.
func (ConversionCalculator) ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, invalidAmount("is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalidAmount("must be a decimal number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, invalidAmount("must be greater than 0")
	}

	// Bound the exponent before any rescaling: comparing or truncating a value
	// like 1e50000000 materializes a power of ten with that many digits.
	digits := int64(len(amount.Coefficient().String()))
	exp := int64(amount.Exponent())
	if exp > 0 && digits+exp > domain.MaxAmountIntegerDigits {
		return decimal.Zero, tooLarge()
	}
	// The coefficient has at most digits-1 trailing zeros, so past this point
	// more than maxAmountScale places remain after trimming them.
	if -exp > digits+maxAmountScale {
		return decimal.Zero, tooPrecise()
	}

	if exp < -maxAmountScale && !amount.Equal(amount.Truncate(maxAmountScale)) {
		return decimal.Zero, tooPrecise()
	}
	if amount.GreaterThanOrEqual(domain.MaxAmount) {
		return decimal.Zero, tooLarge()
	}
	return amount, nil
}

// Convert normalizes the pair and computes the converted amount for quote.
// The result has no ID or creation time yet.
func (ConversionCalculator) Convert(amount decimal.Decimal, baseCurrency, targetCurrency string, quote domain.RateQuote) (*domain.Conversion, error) {
	if !amount.IsPositive() {
		return nil, invalidAmount("must be greater than 0")
	}
	pair := domain.NewCurrencyPair(baseCurrency, targetCurrency)
	if err := pair.Validate(); err != nil {
		return nil, err
	}

	return &domain.Conversion{
		CurrencyPair:    pair,
		Amount:          amount,
		RateUsed:        quote.Rate,
		ConvertedAmount: domain.ConvertAmount(amount, quote.Rate),
		RateFetchedAt:   quote.AsOf,
	}, nil
}

func tooPrecise() error {
	return invalidAmount("must have at most 6 decimal places")
}

func tooLarge() error {
	return invalidAmount("must be less than " + domain.MaxAmount.String())
}

func invalidAmount(reason string) error {
	return apperrors.NewValidationError(apperrors.ErrInvalidAmount, apperrors.FieldError{Field: "amount", Reason: reason})
}
