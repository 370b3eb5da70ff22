package mapping

import (
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	"github.com/SscSPs/currency_conversion_app/internal/models"
)

// ToModelConversion converts a domain Conversion to a model Conversion
func ToModelConversion(d domain.Conversion) models.Conversion {
	return models.Conversion{
		ConversionID:    d.ConversionID,
		Amount:          d.Amount,
		BaseCurrency:    d.Base,
		TargetCurrency:  d.Target,
		RateUsed:        d.RateUsed,
		ConvertedAmount: d.ConvertedAmount,
		RateFetchedAt:   d.RateFetchedAt,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainConversion converts a model Conversion to a domain Conversion
func ToDomainConversion(m models.Conversion) domain.Conversion {
	return domain.Conversion{
		ConversionID:    m.ConversionID,
		CurrencyPair:    domain.CurrencyPair{Base: m.BaseCurrency, Target: m.TargetCurrency},
		Amount:          m.Amount,
		RateUsed:        m.RateUsed,
		ConvertedAmount: m.ConvertedAmount,
		RateFetchedAt:   m.RateFetchedAt,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainConversions converts a slice of model Conversions
func ToDomainConversions(ms []models.Conversion) []domain.Conversion {
	out := make([]domain.Conversion, len(ms))
	for i, m := range ms {
		out[i] = ToDomainConversion(m)
	}
	return out
}
