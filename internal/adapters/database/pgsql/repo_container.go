package pgsql

import (
	portsrepo "github.com/SscSPs/currency_conversion_app/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the PostgreSQL-backed repositories. db is
// usually a *pgxpool.Pool.
func NewRepositoryProvider(db DBTX) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: newPgxExchangeRateRepository(db),
		ConversionRepo:   newPgxConversionRepository(db),
	}
}
