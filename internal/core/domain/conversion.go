package domain

import (
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ConvertedAmountScale is the number of decimal places kept on converted amounts.
const ConvertedAmountScale int32 = 6

// Integer digit limits of the numeric(18,6) amount columns and the
// numeric(18,10) rate columns.
const (
	MaxAmountIntegerDigits = 12
	MaxRateIntegerDigits   = 8
)

var (
	// MaxAmount is the exclusive upper bound of amount and converted_amount.
	MaxAmount = decimal.New(1, MaxAmountIntegerDigits)
	// MaxRate is the exclusive upper bound of a stored rate.
	MaxRate = decimal.New(1, MaxRateIntegerDigits)
)

// ConvertAmount multiplies amount by rate and rounds half away from zero to
// ConvertedAmountScale places.
func ConvertAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(ConvertedAmountScale)
}

// Conversion is one completed conversion. Records are append-only.
type Conversion struct {
	ConversionID string `json:"id"`
	CurrencyPair
	Amount          decimal.Decimal `json:"amount" validate:"gt=0"`
	RateUsed        decimal.Decimal `json:"rate_used" validate:"gt=0"`
	ConvertedAmount decimal.Decimal `json:"converted_amount" validate:"gt=0"`
	RateFetchedAt   time.Time       `json:"rate_fetched_at" validate:"required"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Validate normalizes the record and checks it against the entity invariants.
// Failures match apperrors.ErrPersistence.
func (c *Conversion) Validate() error {
	c.Normalize()
	if err := validate.Struct(c); err != nil {
		return validationFailure(apperrors.ErrPersistence, err)
	}
	return nil
}

func conversionStructLevel(sl validator.StructLevel) {
	c := sl.Current().Interface().(Conversion)
	tooLarge := false
	if c.Amount.GreaterThanOrEqual(MaxAmount) {
		sl.ReportError(c.Amount, "amount", "Amount", "lt", MaxAmount.String())
		tooLarge = true
	}
	if c.RateUsed.GreaterThanOrEqual(MaxRate) {
		sl.ReportError(c.RateUsed, "rate_used", "RateUsed", "lt", MaxRate.String())
		tooLarge = true
	}
	if c.ConvertedAmount.GreaterThanOrEqual(MaxAmount) {
		sl.ReportError(c.ConvertedAmount, "converted_amount", "ConvertedAmount", "lt", MaxAmount.String())
		tooLarge = true
	}
	if tooLarge || !c.Amount.IsPositive() || !c.RateUsed.IsPositive() {
		return
	}
	if !c.ConvertedAmount.Equal(ConvertAmount(c.Amount, c.RateUsed)) {
		sl.ReportError(c.ConvertedAmount, "converted_amount", "ConvertedAmount", "converted", "")
	}
}
