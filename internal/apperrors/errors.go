package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidAmount indicates an amount that is not a parseable positive decimal.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInvalidCurrencyPair indicates a malformed currency code or a pair whose
// base and target are the same currency.
var ErrInvalidCurrencyPair = errors.New("invalid currency pair")

// ErrFetchFailure indicates that the external rate provider could not supply a rate.
var ErrFetchFailure = errors.New("failed to fetch exchange rate")

// ErrPersistence indicates a record that failed entity invariants at write time.
var ErrPersistence = errors.New("failed to persist record")

// AppError is an infrastructure error carrying a suggested HTTP status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Reason
	}
	return f.Field + " " + f.Reason
}

// ValidationError reports one or more field failures. Kind is one of
// ErrInvalidAmount, ErrInvalidCurrencyPair or ErrPersistence; errors.Is
// matches both Kind and ErrValidation.
type ValidationError struct {
	Kind   error
	Fields []FieldError
}

// NewValidationError builds a ValidationError of the given kind.
func NewValidationError(kind error, fields ...FieldError) *ValidationError {
	return &ValidationError{Kind: kind, Fields: fields}
}

func (e *ValidationError) Error() string {
	prefix := ErrValidation.Error()
	if e.Kind != nil {
		prefix = e.Kind.Error()
	}
	if len(e.Fields) == 0 {
		return prefix
	}
	return prefix + ": " + strings.Join(e.Reasons(), "; ")
}

func (e *ValidationError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Kind}
}

// Reasons returns the human readable field reasons.
func (e *ValidationError) Reasons() []string {
	reasons := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		reasons[i] = f.String()
	}
	return reasons
}

// FetchReason distinguishes the ways a provider call can fail.
type FetchReason string

const (
	FetchReasonTransport   FetchReason = "transport"
	FetchReasonBadStatus   FetchReason = "bad_status"
	FetchReasonMalformed   FetchReason = "malformed_response"
	FetchReasonMissingRate FetchReason = "missing_rate"
	FetchReasonMissingDate FetchReason = "missing_date"
)

// FetchError is returned by rate fetchers. errors.Is matches ErrFetchFailure.
type FetchError struct {
	Reason     FetchReason
	Base       string
	Target     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s: %s/%s: %s", ErrFetchFailure.Error(), e.Base, e.Target, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetchFailure}
	}
	return []error{ErrFetchFailure, e.Err}
}

// Kind maps an error onto the reason string exposed to API callers.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInvalidCurrencyPair):
		return "invalid_currency_pair"
	case errors.Is(err, ErrFetchFailure):
		return "fetch_failure"
	case errors.Is(err, ErrPersistence):
		return "persistence_failure"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	default:
		return "internal_error"
	}
}

// Reasons flattens an error into the list of reason strings shown to callers.
func Reasons(err error) []string {
	if err == nil {
		return nil
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		return vErr.Reasons()
	}
	var fErr *FetchError
	if errors.As(err, &fErr) {
		return []string{fErr.Error()}
	}
	return []string{err.Error()}
}
