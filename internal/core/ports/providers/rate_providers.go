package providers

import (
	"context"

	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
)

// RateFetcher retrieves the latest rate for exactly one ordered currency pair
// from an external provider. Implementations must not invert or triangulate
// pairs and must not retry; failures are *apperrors.FetchError.
type RateFetcher interface {
	Fetch(ctx context.Context, baseCurrency, targetCurrency string) (*domain.RateQuote, error)
}
