// Package apierror provides the error envelope returned by every 4xx/5xx
// response. Internal details (DB errors, stack traces) never reach it.
package apierror

// APIError is the canonical error envelope.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries the offending fields of a rejected request.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}

// NewValidationDetail is NewValidation with a specific message, used when the
// error comes from a business rule rather than a struct tag.
func NewValidationDetail(detail string, fields map[string]string) *ValidationError {
	return &ValidationError{Detail: detail, Fields: fields}
}
