package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_conversion_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_conversion_app/internal/core/ports/services"
	"github.com/SscSPs/currency_conversion_app/internal/utils/pagination"
	"github.com/google/uuid"
)

// conversionService implements the ConversionSvcFacade interface
type conversionService struct {
	BaseService
	calculator     ConversionCalculator
	rates          portssvc.RateResolverSvc
	conversionRepo portsrepo.ConversionRepositoryFacade
	now            func() time.Time
	historyLimit   int
}

// ConversionServiceOption configures a conversion service.
type ConversionServiceOption func(*conversionService)

// WithConversionClock replaces time.Now for stamping created_at.
func WithConversionClock(now func() time.Time) ConversionServiceOption {
	return func(s *conversionService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHistoryLimit sets the default page size of ListConversions.
func WithHistoryLimit(limit int) ConversionServiceOption {
	return func(s *conversionService) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// NewConversionService creates a new conversion service.
func NewConversionService(rates portssvc.RateResolverSvc, conversionRepo portsrepo.ConversionRepositoryFacade, opts ...ConversionServiceOption) portssvc.ConversionSvcFacade {
	s := &conversionService{
		rates:          rates,
		conversionRepo: conversionRepo,
		now:            time.Now,
		historyLimit:   pagination.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert validates input, resolves the rate, computes the result and appends
// it to the conversion history. Nothing is stored when any step fails.
func (s *conversionService) Convert(ctx context.Context, amount string, from, to string) (*domain.Conversion, error) {
	parsed, err := s.calculator.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	pair := domain.NewCurrencyPair(from, to)
	if err := pair.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.rates.Resolve(ctx, pair.Base, pair.Target)
	if err != nil {
		return nil, err
	}

	conversion, err := s.calculator.Convert(parsed, pair.Base, pair.Target, *quote)
	if err != nil {
		return nil, err
	}
	conversion.ConversionID = uuid.NewString()
	conversion.CreatedAt = s.now().UTC()

	saved, err := s.conversionRepo.AppendConversion(ctx, *conversion)
	if err != nil {
		s.LogError(ctx, err, "Failed to record conversion", slog.String("pair", pair.String()))
		return nil, fmt.Errorf("failed to record conversion: %w", err)
	}

	s.LogInfo(ctx, "Conversion recorded",
		slog.String("conversion_id", saved.ConversionID),
		slog.String("pair", pair.String()),
		slog.String("amount", saved.Amount.String()),
		slog.String("converted_amount", saved.ConvertedAmount.String()))
	return saved, nil
}

// ListConversions returns a page of conversion history, newest first.
func (s *conversionService) ListConversions(ctx context.Context, params portssvc.ListConversionsParams) (*portssvc.ConversionPage, error) {
	limit := pagination.ClampLimit(params.Limit, s.historyLimit, pagination.MaxLimit)
	query := portsrepo.ConversionListQuery{Limit: limit + 1}

	if params.NextToken != "" {
		createdAt, id, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationError(nil, apperrors.FieldError{Field: "next_token", Reason: "is invalid"})
		}
		query.Before = &portsrepo.ConversionCursor{CreatedAt: createdAt, ConversionID: id}
	}

	conversions, err := s.conversionRepo.ListConversions(ctx, query)
	if err != nil {
		s.LogError(ctx, err, "Failed to list conversions")
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}

	page := &portssvc.ConversionPage{Conversions: conversions}
	if len(conversions) > limit {
		page.Conversions = conversions[:limit]
		last := page.Conversions[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ConversionID)
		page.NextToken = &token
	}
	return page, nil
}

// GetExchangeRate returns the current rate for from->to through the rate cache.
func (s *conversionService) GetExchangeRate(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	return s.rates.ResolveExchangeRate(ctx, from, to)
}
