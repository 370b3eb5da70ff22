package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/currency_conversion_app/internal/core/ports/services"
	"github.com/SscSPs/currency_conversion_app/internal/dto"
	"github.com/SscSPs/currency_conversion_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	conversionService portssvc.ConversionReaderSvc
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(cs portssvc.ConversionReaderSvc) *exchangeRateHandler {
	return &exchangeRateHandler{conversionService: cs}
}

// RegisterExchangeRateRoutes registers routes related to exchange rates.
func RegisterExchangeRateRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionReaderSvc) {
	h := newExchangeRateHandler(conversionService)

	rg.GET("/rates/:from/:to", h.getExchangeRate)
}

// getExchangeRate godoc
// @Summary Get an exchange rate
// @Description Returns the current rate for a currency pair, refreshing it from the provider when the stored rate is stale
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "Base currency code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "Target currency code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 422 {object} dto.ErrorResponse "Invalid currency pair"
// @Failure 502 {object} dto.ErrorResponse "Rate provider failure"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	fromCode := c.Param("from")
	toCode := c.Param("to")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("from", fromCode), slog.String("to", toCode))

	rate, err := h.conversionService.GetExchangeRate(c.Request.Context(), fromCode, toCode)
	if err != nil {
		respondWithError(c, logger, "Failed to get exchange rate", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
