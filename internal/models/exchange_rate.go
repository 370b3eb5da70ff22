package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the exchange_rates table. There is one row per
// ordered (base, target) pair.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (UUID)
	BaseCurrency   string          `json:"baseCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	Rate           decimal.Decimal `json:"rate"` // numeric(18,10)
	FetchedAt      time.Time       `json:"fetchedAt"`
	AuditFields
}
