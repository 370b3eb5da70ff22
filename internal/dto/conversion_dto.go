package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/SscSPs/currency_conversion_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_conversion_app/internal/core/ports/services"
	"github.com/SscSPs/currency_conversion_app/internal/utils"
)

// FlexibleAmount accepts an amount sent either as a JSON string or a JSON number.
// Numbers are kept as their literal text so no precision is lost to float64.
type FlexibleAmount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *FlexibleAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = FlexibleAmount(s)
	default:
		// Anything else is handed on verbatim and rejected by amount parsing.
		*a = FlexibleAmount(data)
	}
	return nil
}

// ConvertRequest is the body of POST /convert.
type ConvertRequest struct {
	Amount FlexibleAmount `json:"amount" form:"amount" example:"100.50" swaggertype:"string"`
	From   string         `json:"from" form:"from" example:"USD"`
	To     string         `json:"to" form:"to" example:"EUR"`
}

// HasAllParams reports whether amount, from and to were all supplied.
func (r ConvertRequest) HasAllParams() bool {
	return strings.TrimSpace(string(r.Amount)) != "" &&
		strings.TrimSpace(r.From) != "" &&
		strings.TrimSpace(r.To) != ""
}

// ConversionResponse is a completed conversion.
type ConversionResponse struct {
	ID              string    `json:"id"`
	Amount          string    `json:"amount" example:"100.500000"`
	BaseCurrency    string    `json:"base_currency" example:"USD"`
	TargetCurrency  string    `json:"target_currency" example:"EUR"`
	ConvertedAmount string    `json:"converted_amount" example:"85.425000"`
	RateUsed        string    `json:"rate_used" example:"0.85"`
	RateTimestamp   time.Time `json:"rate_timestamp"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToConversionResponse converts a domain.Conversion to ConversionResponse DTO
func ToConversionResponse(c *domain.Conversion) ConversionResponse {
	return ConversionResponse{
		ID:              c.ConversionID,
		Amount:          utils.FormatAmount(c.Amount),
		BaseCurrency:    c.Base,
		TargetCurrency:  c.Target,
		ConvertedAmount: utils.FormatAmount(c.ConvertedAmount),
		RateUsed:        c.RateUsed.String(),
		RateTimestamp:   c.RateFetchedAt,
		CreatedAt:       c.CreatedAt,
	}
}

// ListConversionsResponse is a page of conversion history.
type ListConversionsResponse struct {
	Conversions []ConversionResponse `json:"conversions"`
	NextToken   *string              `json:"next_token,omitempty"`
}

// ToListConversionsResponse converts a service page into its response DTO.
func ToListConversionsResponse(page *portssvc.ConversionPage) ListConversionsResponse {
	resp := ListConversionsResponse{
		Conversions: make([]ConversionResponse, len(page.Conversions)),
		NextToken:   page.NextToken,
	}
	for i := range page.Conversions {
		resp.Conversions[i] = ToConversionResponse(&page.Conversions[i])
	}
	return resp
}

// ListConversionsParams are the query parameters of GET /conversions.
type ListConversionsParams struct {
	Limit     int    `form:"limit"`
	NextToken string `form:"next_token"`
}
