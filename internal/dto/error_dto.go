package dto

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Errors []string `json:"errors"`
	Reason string   `json:"reason,omitempty" example:"invalid_amount"`
}
