package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	"github.com/SscSPs/currency_conversion_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionCalculator_ParseAmount(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       string
		wantReason string
	}{
		{name: "integer", raw: "100", want: "100"},
		{name: "decimal", raw: "100.50", want: "100.5"},
		{name: "padded", raw: " 42.1 ", want: "42.1"},
		{name: "six places", raw: "0.000001", want: "0.000001"},
		{name: "trailing zeros beyond six places", raw: "1.50000000", want: "1.5"},
		{name: "empty", raw: "", wantReason: "amount is required"},
		{name: "blank", raw: "   ", wantReason: "amount is required"},
		{name: "not a number", raw: "abc", wantReason: "amount must be a decimal number"},
		{name: "zero", raw: "0", wantReason: "amount must be greater than 0"},
		{name: "negative", raw: "-5", wantReason: "amount must be greater than 0"},
		{name: "too precise", raw: "1.0000001", wantReason: "amount must have at most 6 decimal places"},
		{name: "too large", raw: "1000000000000", wantReason: "amount must be less than 1000000000000"},
		{name: "largest allowed", raw: "999999999999.999999", want: "999999999999.999999"},
		{name: "exponent within bounds", raw: "1.5e3", want: "1500"},
		{name: "negative exponent within bounds", raw: "15e-6", want: "0.000015"},
		{name: "exponent too large", raw: "1e12", wantReason: "amount must be less than 1000000000000"},
		{name: "negative exponent too precise", raw: "1e-7", wantReason: "amount must have at most 6 decimal places"},
		{name: "trailing zeros with negative exponent", raw: "1000000e-6", want: "1"},
	}

	calc := services.ConversionCalculator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.ParseAmount(tt.raw)
			if tt.wantReason == "" {
				require.NoError(t, err)
				assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
				return
			}
			require.ErrorIs(t, err, apperrors.ErrInvalidAmount)
			assert.Equal(t, []string{tt.wantReason}, apperrors.Reasons(err))
		})
	}
}

func TestConversionCalculator_Convert(t *testing.T) {
	calc := services.ConversionCalculator{}
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	quote := domain.RateQuote{Rate: decimal.RequireFromString("0.85"), AsOf: asOf}

	t.Run("computes and normalizes", func(t *testing.T) {
		conv, err := calc.Convert(decimal.RequireFromString("100.50"), "usd", " eur", quote)
		require.NoError(t, err)
		assert.Equal(t, domain.CurrencyPair{Base: "USD", Target: "EUR"}, conv.CurrencyPair)
		assert.Equal(t, "85.425", conv.ConvertedAmount.String())
		assert.True(t, quote.Rate.Equal(conv.RateUsed))
		assert.Equal(t, asOf, conv.RateFetchedAt)
		assert.Empty(t, conv.ConversionID)
		assert.True(t, conv.CreatedAt.IsZero())
	})

	t.Run("rounds to six places", func(t *testing.T) {
		conv, err := calc.Convert(decimal.RequireFromString("123.456789"), "USD", "EUR", quote)
		require.NoError(t, err)
		assert.Equal(t, "104.938271", conv.ConvertedAmount.String())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := calc.Convert(decimal.Zero, "USD", "EUR", quote)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("rejects same currency", func(t *testing.T) {
		_, err := calc.Convert(decimal.NewFromInt(1), "USD", "usd", quote)
		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.ErrorIs(t, err, apperrors.ErrInvalidCurrencyPair)
	})
}

func TestConversionCalculator_ParseAmount_HugeExponents(t *testing.T) {
	tests := []struct {
		raw        string
		wantReason string
	}{
		{raw: "1e50000000", wantReason: "amount must be less than 1000000000000"},
		{raw: "1e2000000000", wantReason: "amount must be less than 1000000000000"},
		{raw: "1e-50000000", wantReason: "amount must have at most 6 decimal places"},
		{raw: "1e-2000000000", wantReason: "amount must have at most 6 decimal places"},
	}

	calc := services.ConversionCalculator{}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			start := time.Now()
			_, err := calc.ParseAmount(tt.raw)
			elapsed := time.Since(start)

			require.ErrorIs(t, err, apperrors.ErrInvalidAmount)
			assert.Equal(t, []string{tt.wantReason}, apperrors.Reasons(err))
			assert.Less(t, elapsed, time.Second, "rejected without expanding the exponent")
		})
	}
}
