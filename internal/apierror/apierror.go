// Package apierror provides the standardized error envelopes for the API.
// Every 4xx/5xx response goes through this package so that clients always
// receive the same shape and internal details (stack traces, SQL errors)
// never leak to the frontend.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func (e *APIError) Error() string { return e.Detail }

// ValidationError aggregates per-field validation failures (422 responses).
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Fields: fields}
}

func (e *ValidationError) Error() string { return e.Detail }
