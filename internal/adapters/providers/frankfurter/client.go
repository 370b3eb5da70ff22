// Package frankfurter fetches exchange rates from the Frankfurter API
// (https://www.frankfurter.app).
package frankfurter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	portsprov "github.com/SscSPs/currency_conversion_app/internal/core/ports/providers"
	"github.com/SscSPs/currency_conversion_app/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the public Frankfurter endpoint.
	DefaultBaseURL = "https://api.frankfurter.app"
	// DefaultTimeout bounds every provider call.
	DefaultTimeout = 10 * time.Second

	dateLayout      = "2006-01-02"
	maxResponseSize = 1 << 20
)

// latestResponse is the body of GET /latest.
type latestResponse struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// Client implements portsprov.RateFetcher against the Frankfurter API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-call timeout. It applies to a copy of the current
// HTTP client, so a client passed to WithHTTPClient is never modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			hc := *c.httpClient
			hc.Timeout = timeout
			c.httpClient = &hc
		}
	}
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch requests the latest rate for exactly base->target. It makes one
// request and never retries.
func (c *Client) Fetch(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("provider", "frankfurter"),
		slog.String("base", baseCurrency),
		slog.String("target", targetCurrency),
	)
	fail := func(reason apperrors.FetchReason, status int, err error) error {
		fErr := &apperrors.FetchError{Reason: reason, Base: baseCurrency, Target: targetCurrency, StatusCode: status, Err: err}
		logger.Warn("Rate provider request failed", slog.String("reason", string(reason)), slog.Int("status", status))
		return fErr
	}

	q := url.Values{}
	q.Set("from", baseCurrency)
	q.Set("to", targetCurrency)
	endpoint := c.baseURL + "/latest?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fail(apperrors.FetchReasonTransport, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fail(apperrors.FetchReasonTransport, 0, err)
	}
	defer resp.Body.Close()
	logger.Debug("Rate provider responded", slog.Int("status", resp.StatusCode), slog.Duration("latency", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fail(apperrors.FetchReasonBadStatus, resp.StatusCode, errors.New(strings.TrimSpace(string(body))))
	}

	var payload latestResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return nil, fail(apperrors.FetchReasonMalformed, resp.StatusCode, err)
	}

	rate, ok := payload.Rates[targetCurrency]
	if !ok {
		return nil, fail(apperrors.FetchReasonMissingRate, resp.StatusCode, nil)
	}
	if !rate.IsPositive() {
		return nil, fail(apperrors.FetchReasonMissingRate, resp.StatusCode, fmt.Errorf("non-positive rate %s", rate))
	}

	if payload.Date == "" {
		return nil, fail(apperrors.FetchReasonMissingDate, resp.StatusCode, nil)
	}
	asOf, err := time.ParseInLocation(dateLayout, payload.Date, time.UTC)
	if err != nil {
		return nil, fail(apperrors.FetchReasonMissingDate, resp.StatusCode, err)
	}

	return &domain.RateQuote{Rate: rate, AsOf: asOf}, nil
}

var _ portsprov.RateFetcher = (*Client)(nil)
