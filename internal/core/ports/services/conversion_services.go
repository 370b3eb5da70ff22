package services

import (
	"context"

	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
)

// RateResolverSvc resolves a rate for an ordered pair, using the stored rate
// while it is fresh and fetching a new one otherwise.
type RateResolverSvc interface {
	Resolve(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error)
	// ResolveExchangeRate is Resolve returning the stored record behind the quote.
	ResolveExchangeRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error)
}

// ConversionWriterSvc performs conversions.
type ConversionWriterSvc interface {
	// Convert parses amount, resolves the rate for from->to, computes the
	// converted amount and records the result.
	Convert(ctx context.Context, amount string, from, to string) (*domain.Conversion, error)
}

// ConversionPage is one page of conversion history.
type ConversionPage struct {
	Conversions []domain.Conversion
	NextToken   *string
}

// ListConversionsParams carries paging input for the history listing.
type ListConversionsParams struct {
	Limit     int
	NextToken string
}

// ConversionReaderSvc reads conversion history and current rates.
type ConversionReaderSvc interface {
	ListConversions(ctx context.Context, params ListConversionsParams) (*ConversionPage, error)
	GetExchangeRate(ctx context.Context, from, to string) (*domain.ExchangeRate, error)
}

// ConversionSvcFacade combines all conversion-related service interfaces
type ConversionSvcFacade interface {
	ConversionWriterSvc
	ConversionReaderSvc
}
