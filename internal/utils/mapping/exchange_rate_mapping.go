package mapping

import (
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	"github.com/SscSPs/currency_conversion_app/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID: d.ExchangeRateID,
		BaseCurrency:   d.Base,
		TargetCurrency: d.Target,
		Rate:           d.Rate,
		FetchedAt:      d.FetchedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID: m.ExchangeRateID,
		CurrencyPair:   domain.CurrencyPair{Base: m.BaseCurrency, Target: m.TargetCurrency},
		Rate:           m.Rate,
		FetchedAt:      m.FetchedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
