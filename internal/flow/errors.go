package flow

import "net/http"

// Code is the stable error taxonomy shared by every endpoint.
type Code string

const (
	CodeInvalidRequest   Code = "invalid_request"
	CodeValidationFailed Code = "validation_failed"
	CodeNotFound         Code = "not_found"
	CodeSessionExpired   Code = "session_expired"
	CodeRateLimited      Code = "rate_limited"
	CodeOCRFailed        Code = "ocr_failed"
	CodeLLMFailed        Code = "llm_failed"
	CodeTimeout          Code = "timeout"
	CodeInternal         Code = "internal_error"
)

// Error is a structured client-facing error. Precondition failures never
// partially mutate state: transitions validate first, then attach.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// HTTPStatus maps a taxonomy code to its response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeValidationFailed:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSessionExpired:
		return http.StatusGone
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func invalidRequest(message string) *Error {
	return &Error{Code: CodeInvalidRequest, Message: message}
}

// ValidationFailed reports malformed input shape or range.
func ValidationFailed(message string) *Error {
	return &Error{Code: CodeValidationFailed, Message: message}
}

func notFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func sessionExpired() *Error {
	return &Error{Code: CodeSessionExpired, Message: "Session has expired"}
}

func internal(message string) *Error {
	return &Error{Code: CodeInternal, Message: message}
}
