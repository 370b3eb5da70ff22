package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	portsprov "github.com/SscSPs/currency_conversion_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/currency_conversion_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_conversion_app/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*MockExchangeRateRepository)(nil)

// --- Mock ConversionRepository ---
type MockConversionRepository struct {
	mock.Mock
}

func (m *MockConversionRepository) AppendConversion(ctx context.Context, conversion domain.Conversion) (*domain.Conversion, error) {
	args := m.Called(ctx, conversion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}

func (m *MockConversionRepository) ListConversions(ctx context.Context, query portsrepo.ConversionListQuery) ([]domain.Conversion, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversion), args.Error(1)
}

var _ portsrepo.ConversionRepositoryFacade = (*MockConversionRepository)(nil)

// --- Mock RateFetcher ---
type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) Fetch(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

var _ portsprov.RateFetcher = (*MockRateFetcher)(nil)

// --- Mock RateResolver ---
type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) Resolve(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

func (m *MockRateResolver) ResolveExchangeRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

var _ portssvc.RateResolverSvc = (*MockRateResolver)(nil)

// countingFetcher serves fixed quotes per pair and counts calls.
type countingFetcher struct {
	mu     sync.Mutex
	quotes map[string]domain.RateQuote
	errs   map[string]error
	calls  int
	gate   chan struct{}
}

func (f *countingFetcher) Fetch(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	key := baseCurrency + "/" + targetCurrency
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	q, ok := f.quotes[key]
	if !ok {
		return nil, fmt.Errorf("unexpected fetch for %s", key)
	}
	return &q, nil
}

func (f *countingFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
