package domain

import (
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RateQuote is a rate for an ordered pair together with the time it is valid as of.
type RateQuote struct {
	Rate decimal.Decimal `json:"rate"`
	AsOf time.Time       `json:"as_of"`
}

// ExchangeRate is the last known rate for an ordered currency pair.
// There is at most one per pair; refreshes overwrite Rate and FetchedAt in place.
type ExchangeRate struct {
	ExchangeRateID string `json:"exchange_rate_id"`
	CurrencyPair
	Rate      decimal.Decimal `json:"rate" validate:"gt=0"`
	FetchedAt time.Time       `json:"fetched_at" validate:"required"` // quote validity time, not write time
	AuditFields
}

// NewExchangeRate builds a normalized record for pair from a fetched quote.
func NewExchangeRate(pair CurrencyPair, quote RateQuote) ExchangeRate {
	rate := ExchangeRate{
		CurrencyPair: pair,
		Rate:         quote.Rate,
		FetchedAt:    quote.AsOf,
	}
	rate.Normalize()
	return rate
}

// Quote returns the rate and its as-of time.
func (r ExchangeRate) Quote() RateQuote {
	return RateQuote{Rate: r.Rate, AsOf: r.FetchedAt}
}

// IsFresh reports whether the quote is younger than ttl at now.
func (r ExchangeRate) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.FetchedAt) < ttl
}

// Validate normalizes the record and checks it against the entity invariants.
// Failures match apperrors.ErrPersistence.
func (r *ExchangeRate) Validate() error {
	r.Normalize()
	if err := validate.Struct(r); err != nil {
		return validationFailure(apperrors.ErrPersistence, err)
	}
	return nil
}

func exchangeRateStructLevel(sl validator.StructLevel) {
	r := sl.Current().Interface().(ExchangeRate)
	if r.Rate.GreaterThanOrEqual(MaxRate) {
		sl.ReportError(r.Rate, "rate", "Rate", "lt", MaxRate.String())
	}
}
