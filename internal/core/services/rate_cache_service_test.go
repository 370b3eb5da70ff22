package services_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/adapters/database/memory"
	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	"github.com/SscSPs/currency_conversion_app/internal/core/services"
	"github.com/SscSPs/currency_conversion_app/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type RateCacheServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	mockFetcher  *MockRateFetcher
	clock        *fakeClock
	service      *services.RateCacheService
}

func (suite *RateCacheServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockFetcher = new(MockRateFetcher)
	suite.clock = newFakeClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	suite.service = services.NewRateCacheService(suite.mockRateRepo, suite.mockFetcher,
		services.WithRateCacheTTL(time.Hour),
		services.WithRateCacheClock(suite.clock.Now),
	)
}

func (suite *RateCacheServiceTestSuite) storedRate(age time.Duration, rate string) *domain.ExchangeRate {
	return &domain.ExchangeRate{
		ExchangeRateID: "rate-1",
		CurrencyPair:   domain.CurrencyPair{Base: "USD", Target: "EUR"},
		Rate:           decimal.RequireFromString(rate),
		FetchedAt:      suite.clock.Now().Add(-age),
	}
}

// --- Test Cases ---

func (suite *RateCacheServiceTestSuite) TestResolve_FreshRecordSkipsFetch() {
	ctx := context.Background()
	stored := suite.storedRate(30*time.Minute, "0.85")
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(stored, nil).Once()

	quote, err := suite.service.Resolve(ctx, "USD", "EUR")

	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("0.85").Equal(quote.Rate))
	suite.Equal(stored.FetchedAt, quote.AsOf)
	suite.mockFetcher.AssertNotCalled(suite.T(), "Fetch", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertExchangeRate", mock.Anything, mock.Anything)
}

func (suite *RateCacheServiceTestSuite) TestResolve_LogsCacheHitAtDebug() {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := middleware.WithLogger(context.Background(), logger)
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(suite.storedRate(time.Minute, "0.85"), nil).Once()

	_, err := suite.service.Resolve(ctx, "USD", "EUR")

	suite.Require().NoError(err)
	suite.Contains(buf.String(), `"msg":"Serving cached exchange rate"`)
	suite.Contains(buf.String(), `"pair":"USD/EUR"`)
	suite.Contains(buf.String(), `"level":"DEBUG"`)
}

func (suite *RateCacheServiceTestSuite) TestResolve_MissingRecordFetchesAndStores() {
	ctx := context.Background()
	fetched := &domain.RateQuote{Rate: decimal.RequireFromString("0.85"), AsOf: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(nil, apperrors.NewNotFoundError("missing")).Once()
	suite.mockFetcher.On("Fetch", mock.Anything, "USD", "EUR").Return(fetched, nil).Once()
	suite.mockRateRepo.On("UpsertExchangeRate", mock.Anything, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.Base == "USD" && r.Target == "EUR" &&
			r.Rate.Equal(fetched.Rate) && r.FetchedAt.Equal(fetched.AsOf) &&
			r.ExchangeRateID != "" && r.CreatedAt.Equal(suite.clock.Now())
	})).Return(&domain.ExchangeRate{
		ExchangeRateID: "rate-1",
		CurrencyPair:   domain.CurrencyPair{Base: "USD", Target: "EUR"},
		Rate:           fetched.Rate,
		FetchedAt:      fetched.AsOf,
	}, nil).Once()

	quote, err := suite.service.Resolve(ctx, "USD", "EUR")

	suite.Require().NoError(err)
	suite.True(fetched.Rate.Equal(quote.Rate))
	suite.Equal(fetched.AsOf, quote.AsOf)
	suite.mockRateRepo.AssertExpectations(suite.T())
	suite.mockFetcher.AssertExpectations(suite.T())
}

func (suite *RateCacheServiceTestSuite) TestResolve_StaleRecordIsRefreshed() {
	ctx := context.Background()
	fetched := &domain.RateQuote{Rate: decimal.RequireFromString("0.86"), AsOf: suite.clock.Now()}

	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(suite.storedRate(2*time.Hour, "0.85"), nil).Once()
	suite.mockFetcher.On("Fetch", mock.Anything, "USD", "EUR").Return(fetched, nil).Once()
	refreshed := suite.storedRate(0, "0.86")
	suite.mockRateRepo.On("UpsertExchangeRate", mock.Anything, mock.AnythingOfType("domain.ExchangeRate")).
		Return(refreshed, nil).Once()

	quote, err := suite.service.Resolve(ctx, "USD", "EUR")

	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("0.86").Equal(quote.Rate))
	suite.mockFetcher.AssertExpectations(suite.T())
}

func (suite *RateCacheServiceTestSuite) TestResolve_FetchFailureDoesNotFallBack() {
	ctx := context.Background()
	fetchErr := &apperrors.FetchError{Reason: apperrors.FetchReasonTransport, Base: "USD", Target: "EUR"}

	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(suite.storedRate(2*time.Hour, "0.85"), nil).Once()
	suite.mockFetcher.On("Fetch", mock.Anything, "USD", "EUR").Return(nil, fetchErr).Once()

	quote, err := suite.service.Resolve(ctx, "USD", "EUR")

	suite.Nil(quote, "the stale rate is not served")
	suite.ErrorIs(err, apperrors.ErrFetchFailure)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertExchangeRate", mock.Anything, mock.Anything)
}

func (suite *RateCacheServiceTestSuite) TestResolve_StoreReadErrorAborts() {
	ctx := context.Background()
	readErr := errors.New("connection refused")
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(nil, readErr).Once()

	_, err := suite.service.Resolve(ctx, "USD", "EUR")

	suite.ErrorIs(err, readErr)
	suite.mockFetcher.AssertNotCalled(suite.T(), "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateCacheServiceTestSuite) TestResolve_UpsertErrorIsReturned() {
	ctx := context.Background()
	upsertErr := errors.New("deadlock detected")
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFetcher.On("Fetch", mock.Anything, "USD", "EUR").
		Return(&domain.RateQuote{Rate: decimal.RequireFromString("0.85"), AsOf: suite.clock.Now()}, nil).Once()
	suite.mockRateRepo.On("UpsertExchangeRate", mock.Anything, mock.Anything).Return(nil, upsertErr).Once()

	_, err := suite.service.Resolve(ctx, "USD", "EUR")

	suite.ErrorIs(err, upsertErr)
}

func (suite *RateCacheServiceTestSuite) TestResolve_InvalidPairNeverTouchesCollaborators() {
	ctx := context.Background()
	for _, pair := range [][2]string{{"USD", "usd"}, {"US", "EUR"}, {"", "EUR"}} {
		_, err := suite.service.Resolve(ctx, pair[0], pair[1])
		suite.ErrorIs(err, apperrors.ErrInvalidCurrencyPair, pair)
	}
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindExchangeRate", mock.Anything, mock.Anything, mock.Anything)
	suite.mockFetcher.AssertNotCalled(suite.T(), "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateCacheServiceTestSuite) TestResolve_NormalizesCodes() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(suite.storedRate(time.Minute, "0.85"), nil).Once()

	_, err := suite.service.Resolve(ctx, " usd", "Eur ")

	suite.Require().NoError(err)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func TestRateCacheServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateCacheServiceTestSuite))
}

// Cache behaviour against the in-memory store.

func TestRateCache_TwoResolvesWithinTTLFetchOnce(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock(time.Date(2025, 1, 1, 0, 10, 0, 0, time.UTC))
	fetcher := &countingFetcher{quotes: map[string]domain.RateQuote{
		"USD/EUR": {Rate: decimal.RequireFromString("0.85"), AsOf: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	cache := services.NewRateCacheService(memory.NewStore(), fetcher, services.WithRateCacheClock(clk.Now))

	_, err := cache.Resolve(ctx, "USD", "EUR")
	require.NoError(t, err)
	clk.Advance(20 * time.Minute)
	_, err = cache.Resolve(ctx, "USD", "EUR")
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.Calls())
}

func TestRateCache_RefetchesAfterTTLRegardlessOfPriorOutcome(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := newFakeClock(asOf)
	fetcher := &countingFetcher{
		quotes: map[string]domain.RateQuote{"USD/EUR": {Rate: decimal.RequireFromString("0.85"), AsOf: asOf}},
	}
	cache := services.NewRateCacheService(memory.NewStore(), fetcher,
		services.WithRateCacheClock(clk.Now), services.WithRateCacheTTL(time.Hour))

	_, err := cache.Resolve(ctx, "USD", "EUR")
	require.NoError(t, err)

	clk.Advance(time.Hour)
	fetcher.mu.Lock()
	fetcher.errs = map[string]error{"USD/EUR": &apperrors.FetchError{Reason: apperrors.FetchReasonTransport}}
	fetcher.mu.Unlock()
	_, err = cache.Resolve(ctx, "USD", "EUR")
	require.ErrorIs(t, err, apperrors.ErrFetchFailure)

	// A failed refresh is not remembered: the next call tries again.
	_, err = cache.Resolve(ctx, "USD", "EUR")
	require.ErrorIs(t, err, apperrors.ErrFetchFailure)

	assert.Equal(t, 3, fetcher.Calls())
}

func TestRateCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &countingFetcher{
		quotes: map[string]domain.RateQuote{"USD/EUR": {Rate: decimal.RequireFromString("0.85"), AsOf: now}},
		gate:   make(chan struct{}),
	}
	cache := services.NewRateCacheService(memory.NewStore(), fetcher,
		services.WithRateCacheClock(func() time.Time { return now }))

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Resolve(ctx, "USD", "EUR")
			errs <- err
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(fetcher.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, fetcher.Calls())
}

func TestRateCache_CallerCancellationDoesNotAbortSharedFetch(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	fetcher := &countingFetcher{
		quotes: map[string]domain.RateQuote{"USD/EUR": {Rate: decimal.RequireFromString("0.85"), AsOf: now}},
		gate:   make(chan struct{}),
	}
	cache := services.NewRateCacheService(store, fetcher, services.WithRateCacheClock(func() time.Time { return now }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Resolve(ctx, "USD", "EUR")
		done <- err
	}()

	require.Eventually(t, func() bool { return fetcher.Calls() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(fetcher.gate)
	require.Eventually(t, func() bool {
		_, err := store.FindExchangeRate(context.Background(), "USD", "EUR")
		return err == nil
	}, time.Second, 5*time.Millisecond)
}
