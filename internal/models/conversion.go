package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Conversion is a row of the append-only conversions table.
type Conversion struct {
	ConversionID    string          `json:"conversionID"` // Primary Key (UUID)
	Amount          decimal.Decimal `json:"amount"`       // numeric(18,6)
	BaseCurrency    string          `json:"baseCurrency"`
	TargetCurrency  string          `json:"targetCurrency"`
	RateUsed        decimal.Decimal `json:"rateUsed"`        // numeric(18,10)
	ConvertedAmount decimal.Decimal `json:"convertedAmount"` // numeric(18,6)
	RateFetchedAt   time.Time       `json:"rateFetchedAt"`
	CreatedAt       time.Time       `json:"createdAt"`
}
