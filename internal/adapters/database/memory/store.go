// Package memory provides process-local repositories used when no database is
// configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_conversion_app/internal/core/ports/repositories"
)

// Store keeps exchange rates keyed by ordered pair and conversions in append order.
type Store struct {
	mu          sync.RWMutex
	rates       map[domain.CurrencyPair]domain.ExchangeRate
	conversions []domain.Conversion
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{rates: make(map[domain.CurrencyPair]domain.ExchangeRate)}
}

// NewRepositoryProvider builds repositories backed by a fresh Store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return NewStore().Repositories()
}

// Repositories exposes s through the repository ports.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: s,
		ConversionRepo:   s,
	}
}

// FindExchangeRate returns a copy of the stored rate for the pair.
func (s *Store) FindExchangeRate(_ context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	pair := domain.NewCurrencyPair(baseCurrency, targetCurrency)

	s.mu.RLock()
	rate, ok := s.rates[pair]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFoundError("exchange rate " + pair.String() + " not found")
	}
	return &rate, nil
}

// UpsertExchangeRate creates the pair's record or overwrites rate and
// fetched_at on the existing one, under a single lock.
func (s *Store) UpsertExchangeRate(_ context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	if err := rate.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.rates[rate.CurrencyPair]; ok {
		existing.Rate = rate.Rate
		existing.FetchedAt = rate.FetchedAt
		existing.LastUpdatedAt = rate.LastUpdatedAt
		rate = existing
	}
	if rate.LastUpdatedAt.IsZero() {
		rate.LastUpdatedAt = time.Now().UTC()
	}
	if rate.CreatedAt.IsZero() {
		rate.CreatedAt = rate.LastUpdatedAt
	}
	s.rates[rate.CurrencyPair] = rate
	return &rate, nil
}

// AppendConversion validates and stores a conversion.
func (s *Store) AppendConversion(_ context.Context, conversion domain.Conversion) (*domain.Conversion, error) {
	if err := conversion.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.conversions = append(s.conversions, conversion)
	s.mu.Unlock()
	return &conversion, nil
}

// ListConversions returns conversions newest first, ties broken by ID descending.
func (s *Store) ListConversions(_ context.Context, q portsrepo.ConversionListQuery) ([]domain.Conversion, error) {
	s.mu.RLock()
	all := make([]domain.Conversion, len(s.conversions))
	copy(all, s.conversions)
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return newer(all[i].CreatedAt, all[i].ConversionID, all[j].CreatedAt, all[j].ConversionID)
	})

	out := make([]domain.Conversion, 0, len(all))
	for _, c := range all {
		if q.Before != nil && !newer(q.Before.CreatedAt, q.Before.ConversionID, c.CreatedAt, c.ConversionID) {
			continue
		}
		out = append(out, c)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// newer orders by (created_at, id) descending.
func newer(aAt time.Time, aID string, bAt time.Time, bID string) bool {
	if !aAt.Equal(bAt) {
		return aAt.After(bAt)
	}
	return aID > bID
}

var (
	_ portsrepo.ExchangeRateRepositoryFacade = (*Store)(nil)
	_ portsrepo.ConversionRepositoryFacade   = (*Store)(nil)
)
