package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
)

// ConversionCursor is a position in the newest-first conversion history.
type ConversionCursor struct {
	CreatedAt    time.Time
	ConversionID string
}

// ConversionListQuery selects a page of conversion history.
type ConversionListQuery struct {
	Limit int
	// Before, when set, restricts results to records strictly older than the cursor.
	Before *ConversionCursor
}

// ConversionWriter appends conversion records. Records are never updated.
type ConversionWriter interface {
	// AppendConversion validates and stores a new record. Invariant failures
	// match apperrors.ErrPersistence.
	AppendConversion(ctx context.Context, conversion domain.Conversion) (*domain.Conversion, error)
}

// ConversionReader lists conversion history.
type ConversionReader interface {
	// ListConversions returns records ordered by created_at descending.
	ListConversions(ctx context.Context, query ConversionListQuery) ([]domain.Conversion, error)
}

// ConversionRepositoryFacade combines all conversion repository interfaces
type ConversionRepositoryFacade interface {
	ConversionReader
	ConversionWriter
}
