package errors

import "net/http"

// APIError carries the HTTP status and machine-readable code for a failed
// request. The taxonomy: not_found (unknown identity/group), conflict
// (duplicate nickname, already-member), validation (missing/bad input),
// upstream_unavailable (AI collaborator), internal (storage failure).
type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func New(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func Internal(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, "internal_error", message)
}

func Validation(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

// Conflict maps to 400: the API surfaces duplicate-nickname and
// already-member as bad requests, matching the published contract.
func Conflict(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}

// Unavailable signals that the AI upstream failed; callers degrade to a
// static fallback message.
func Unavailable(message string) *APIError {
	if message == "" {
		message = "upstream temporarily unavailable"
	}
	return New(http.StatusInternalServerError, "upstream_unavailable", message)
}
