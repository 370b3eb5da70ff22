package dto

import (
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
)

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	BaseCurrency   string    `json:"base_currency" example:"USD"`
	TargetCurrency string    `json:"target_currency" example:"EUR"`
	Rate           string    `json:"rate" example:"0.85"`
	RateTimestamp  time.Time `json:"rate_timestamp"`
	LastUpdatedAt  time.Time `json:"last_updated_at"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		BaseCurrency:   rate.Base,
		TargetCurrency: rate.Target,
		Rate:           rate.Rate.String(),
		RateTimestamp:  rate.FetchedAt,
		LastUpdatedAt:  rate.LastUpdatedAt,
	}
}
