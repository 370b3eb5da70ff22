package domain

import (
	"strings"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
)

// CurrencyPair is an ordered (base, target) pair of ISO currency codes.
// Direction matters: USD/EUR and EUR/USD are different pairs.
type CurrencyPair struct {
	Base   string `json:"base_currency" validate:"required,currency"`
	Target string `json:"target_currency" validate:"required,currency,nefield=Base"`
}

// NormalizeCurrencyCode trims surrounding whitespace and uppercases the code.
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCurrencyPair builds a normalized pair. It does not validate.
func NewCurrencyPair(base, target string) CurrencyPair {
	return CurrencyPair{
		Base:   NormalizeCurrencyCode(base),
		Target: NormalizeCurrencyCode(target),
	}
}

// Normalize rewrites both codes into canonical form in place.
func (p *CurrencyPair) Normalize() {
	p.Base = NormalizeCurrencyCode(p.Base)
	p.Target = NormalizeCurrencyCode(p.Target)
}

// Validate checks code shape and distinctness of an already normalized pair.
// Failures match apperrors.ErrInvalidCurrencyPair.
func (p CurrencyPair) Validate() error {
	if err := validate.Struct(p); err != nil {
		return validationFailure(apperrors.ErrInvalidCurrencyPair, err)
	}
	return nil
}

func (p CurrencyPair) String() string {
	return p.Base + "/" + p.Target
}
