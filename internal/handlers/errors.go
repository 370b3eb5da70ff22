package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/SscSPs/currency_conversion_app/internal/dto"
	"github.com/gin-gonic/gin"
)

const missingParamsMessage = "Missing required parameters: amount, from, and to are required"

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidCurrencyPair),
		errors.Is(err, apperrors.ErrPersistence):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrFetchFailure):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError logs err and writes the matching error body.
// Internal errors are logged in full but reported generically.
func respondWithError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	status := statusFor(err)
	body := dto.ErrorResponse{Errors: apperrors.Reasons(err), Reason: apperrors.Kind(err)}

	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		logger.Error(msg, slog.String("error", err.Error()))
		body.Errors = []string{"Internal server error"}
	} else {
		logger.Warn(msg, slog.String("error", err.Error()), slog.String("reason", body.Reason))
	}
	c.JSON(status, body)
}

func respondBadRequest(c *gin.Context, messages ...string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Errors: messages})
}
