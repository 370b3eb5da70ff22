package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/currency_conversion_app/internal/core/ports/services"
	"github.com/SscSPs/currency_conversion_app/internal/dto"
	"github.com/SscSPs/currency_conversion_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// conversionHandler handles HTTP requests related to conversions.
type conversionHandler struct {
	conversionService portssvc.ConversionSvcFacade
}

// newConversionHandler creates a new conversionHandler.
func newConversionHandler(cs portssvc.ConversionSvcFacade) *conversionHandler {
	return &conversionHandler{conversionService: cs}
}

// RegisterConversionRoutes registers the conversion routes on rg.
func RegisterConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvcFacade) {
	h := newConversionHandler(conversionService)

	rg.POST("/convert", h.convert)
	rg.GET("/conversions", h.listConversions)
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts amount from one currency to another at the current rate and records the result
// @Tags conversions
// @Accept  json
// @Produce  json
// @Param   conversion body dto.ConvertRequest true "Amount and currency pair"
// @Success 201 {object} dto.ConversionResponse
// @Failure 400 {object} dto.ErrorResponse "Missing parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 422 {object} dto.ErrorResponse "Invalid amount, invalid currency pair or record rejected"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 502 {object} dto.ErrorResponse "Rate provider failure"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /convert [post]
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind convert request", slog.String("error", err.Error()))
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}
	if !req.HasAllParams() {
		logger.Warn("Convert request is missing parameters")
		respondBadRequest(c, missingParamsMessage)
		return
	}

	logger = logger.With(slog.String("from", req.From), slog.String("to", req.To))
	logger.Info("Received request to convert", slog.String("amount", string(req.Amount)))

	conversion, err := h.conversionService.Convert(c.Request.Context(), string(req.Amount), req.From, req.To)
	if err != nil {
		respondWithError(c, logger, "Conversion failed", err)
		return
	}

	logger.Info("Conversion completed", slog.String("conversion_id", conversion.ConversionID))
	c.JSON(http.StatusCreated, dto.ToConversionResponse(conversion))
}

// listConversions godoc
// @Summary List conversions
// @Description Lists recorded conversions, newest first
// @Tags conversions
// @Produce  json
// @Param   limit query int false "Page size (default 10, max 100)"
// @Param   next_token query string false "Token returned by the previous page"
// @Success 200 {object} dto.ListConversionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /conversions [get]
func (h *conversionHandler) listConversions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListConversionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind list conversions query", slog.String("error", err.Error()))
		respondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.conversionService.ListConversions(c.Request.Context(), portssvc.ListConversionsParams{
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		respondWithError(c, logger, "Failed to list conversions", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListConversionsResponse(page))
}
