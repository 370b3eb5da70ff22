package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_conversion_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_conversion_app/internal/models"
	"github.com/SscSPs/currency_conversion_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const exchangeRateColumns = `exchange_rate_id, base_currency, target_currency, rate, fetched_at, created_at, last_updated_at`

// PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryFacade using pgx.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(db DBTX) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{DB: db}}
}

// FindExchangeRate retrieves the stored rate for the ordered pair.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, baseCurrency, targetCurrency string) (*domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE base_currency = $1 AND target_currency = $2`

	var modelRate models.ExchangeRate
	err := scanExchangeRate(r.DB.QueryRow(ctx, query,
		domain.NormalizeCurrencyCode(baseCurrency), domain.NormalizeCurrencyCode(targetCurrency),
	), &modelRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate " + baseCurrency + "/" + targetCurrency + " not found")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find exchange rate", err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// UpsertExchangeRate inserts the rate or overwrites rate and fetched_at of the
// existing row for the pair. The row keeps its original ID and created_at.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	modelRate := mapping.ToModelExchangeRate(rate)

	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (base_currency, target_currency) DO UPDATE
		SET rate = EXCLUDED.rate,
			fetched_at = EXCLUDED.fetched_at,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + exchangeRateColumns

	var stored models.ExchangeRate
	err := scanExchangeRate(r.DB.QueryRow(ctx, query,
		modelRate.ExchangeRateID, modelRate.BaseCurrency, modelRate.TargetCurrency,
		modelRate.Rate, modelRate.FetchedAt, modelRate.CreatedAt, modelRate.LastUpdatedAt,
	), &stored)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to upsert exchange rate", err)
	}

	domainRate := mapping.ToDomainExchangeRate(stored)
	return &domainRate, nil
}

func scanExchangeRate(row pgx.Row, m *models.ExchangeRate) error {
	return row.Scan(
		&m.ExchangeRateID, &m.BaseCurrency, &m.TargetCurrency,
		&m.Rate, &m.FetchedAt, &m.CreatedAt, &m.LastUpdatedAt,
	)
}
