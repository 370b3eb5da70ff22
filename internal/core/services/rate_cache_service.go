package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	portsprov "github.com/SscSPs/currency_conversion_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/currency_conversion_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultRateCacheTTL is how long a stored rate is served without refetching.
const DefaultRateCacheTTL = time.Hour

// RateCacheService is a read-through cache of exchange rates in front of a
// RateFetcher, backed by the exchange rate repository.
type RateCacheService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	fetcher  portsprov.RateFetcher
	ttl      time.Duration
	now      func() time.Time
	inflight singleflight.Group
}

// RateCacheOption configures a RateCacheService.
type RateCacheOption func(*RateCacheService)

// WithRateCacheTTL sets the freshness window. Non-positive values are ignored.
func WithRateCacheTTL(ttl time.Duration) RateCacheOption {
	return func(s *RateCacheService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithRateCacheClock replaces time.Now as the source of the current time.
func WithRateCacheClock(now func() time.Time) RateCacheOption {
	return func(s *RateCacheService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRateCacheService creates a new RateCacheService.
func NewRateCacheService(rateRepo portsrepo.ExchangeRateRepositoryFacade, fetcher portsprov.RateFetcher, opts ...RateCacheOption) *RateCacheService {
	s := &RateCacheService{
		rateRepo: rateRepo,
		fetcher:  fetcher,
		ttl:      DefaultRateCacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the rate for base->target, from the store when it is fresh
// and from the fetcher otherwise.
func (s *RateCacheService) Resolve(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error) {
	rate, err := s.ResolveExchangeRate(ctx, baseCurrency, targetCurrency)
	if err != nil {
		return nil, err
	}
	quote := rate.Quote()
	return &quote, nil
}

// ResolveExchangeRate is Resolve returning the stored record.
//
// A stale record is never returned: if the refresh fails the fetch error is
// returned and the stored record is left as it was.
func (s *RateCacheService) ResolveExchangeRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	pair := domain.NewCurrencyPair(baseCurrency, targetCurrency)
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	pairAttr := slog.String("pair", pair.String())

	cached, err := s.rateRepo.FindExchangeRate(ctx, pair.Base, pair.Target)
	switch {
	case err == nil:
		if cached.IsFresh(s.now(), s.ttl) {
			s.LogDebug(ctx, "Serving cached exchange rate", pairAttr, slog.Time("fetched_at", cached.FetchedAt))
			return cached, nil
		}
		s.LogDebug(ctx, "Cached exchange rate is stale", pairAttr, slog.Time("fetched_at", cached.FetchedAt), slog.Duration("ttl", s.ttl))
	case errors.Is(err, apperrors.ErrNotFound):
		s.LogDebug(ctx, "No cached exchange rate", pairAttr)
	default:
		s.LogError(ctx, err, "Failed to read cached exchange rate", pairAttr)
		return nil, fmt.Errorf("failed to read exchange rate %s: %w", pair, err)
	}

	return s.refresh(ctx, pair)
}

// refresh fetches and stores a new rate. Concurrent refreshes of the same pair
// share one provider call; a caller whose context ends stops waiting but the
// shared call completes for the others.
func (s *RateCacheService) refresh(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRate, error) {
	result := s.inflight.DoChan(pair.String(), func() (interface{}, error) {
		return s.fetchAndStore(context.WithoutCancel(ctx), pair)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		rate := *res.Val.(*domain.ExchangeRate)
		return &rate, nil
	}
}

func (s *RateCacheService) fetchAndStore(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRate, error) {
	quote, err := s.fetcher.Fetch(ctx, pair.Base, pair.Target)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch exchange rate", slog.String("pair", pair.String()))
		return nil, err
	}

	now := s.now()
	rate := domain.NewExchangeRate(pair, *quote)
	rate.ExchangeRateID = uuid.NewString()
	rate.CreatedAt = now
	rate.LastUpdatedAt = now

	stored, err := s.rateRepo.UpsertExchangeRate(ctx, rate)
	if err != nil {
		s.LogError(ctx, err, "Failed to store exchange rate", slog.String("pair", pair.String()))
		return nil, fmt.Errorf("failed to store exchange rate %s: %w", pair, err)
	}

	s.LogInfo(ctx, "Exchange rate refreshed",
		slog.String("pair", pair.String()),
		slog.String("rate", stored.Rate.String()),
		slog.Time("fetched_at", stored.FetchedAt))
	return stored, nil
}
