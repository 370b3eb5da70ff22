package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_conversion_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_conversion_app/internal/models"
	"github.com/SscSPs/currency_conversion_app/internal/utils/mapping"
)

const conversionColumns = `conversion_id, amount, base_currency, target_currency, rate_used, converted_amount, rate_fetched_at, created_at`

// PgxConversionRepository implements portsrepo.ConversionRepositoryFacade using pgx.
type PgxConversionRepository struct {
	BaseRepository
}

func newPgxConversionRepository(db DBTX) portsrepo.ConversionRepositoryFacade {
	return &PgxConversionRepository{BaseRepository: BaseRepository{DB: db}}
}

// AppendConversion validates and inserts a conversion record.
func (r *PgxConversionRepository) AppendConversion(ctx context.Context, conversion domain.Conversion) (*domain.Conversion, error) {
	if err := conversion.Validate(); err != nil {
		return nil, err
	}
	m := mapping.ToModelConversion(conversion)

	query := `INSERT INTO conversions (` + conversionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.Exec(ctx, query,
		m.ConversionID, m.Amount, m.BaseCurrency, m.TargetCurrency,
		m.RateUsed, m.ConvertedAmount, m.RateFetchedAt, m.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to insert conversion", err)
	}
	return &conversion, nil
}

// ListConversions returns conversions newest first, ties broken by ID.
func (r *PgxConversionRepository) ListConversions(ctx context.Context, q portsrepo.ConversionListQuery) ([]domain.Conversion, error) {
	query := `SELECT ` + conversionColumns + ` FROM conversions`
	args := []any{}
	if q.Before != nil {
		query += ` WHERE (created_at, conversion_id) < ($1, $2)`
		args = append(args, q.Before.CreatedAt, q.Before.ConversionID)
	}
	query += ` ORDER BY created_at DESC, conversion_id DESC`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list conversions", err)
	}
	defer rows.Close()

	var modelConversions []models.Conversion
	for rows.Next() {
		var m models.Conversion
		if err := rows.Scan(
			&m.ConversionID, &m.Amount, &m.BaseCurrency, &m.TargetCurrency,
			&m.RateUsed, &m.ConvertedAmount, &m.RateFetchedAt, &m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan conversion", err)
		}
		modelConversions = append(modelConversions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating conversions", err)
	}

	return mapping.ToDomainConversions(modelConversions), nil
}
