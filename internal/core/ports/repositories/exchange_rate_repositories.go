package repositories

import (
	"context"

	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindExchangeRate retrieves the stored rate for the ordered pair.
	// It returns an error matching apperrors.ErrNotFound when none exists.
	FindExchangeRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// UpsertExchangeRate inserts the rate for its pair or, when the pair already
	// exists, overwrites rate and fetched_at in place. Concurrent writers for the
	// same pair converge on a single row.
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
