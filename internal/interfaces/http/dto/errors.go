package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	ErrCodeNotConnected      = "ERR_NOT_CONNECTED"
)

// domainCodeMap normalizes domain error codes to API error codes
var domainCodeMap = map[string]string{
	"NOT_FOUND":          ErrCodeNotFound,
	"ALREADY_EXISTS":     ErrCodeAlreadyExists,
	"INVALID_TRANSITION": ErrCodeInvalidTransition,
	"NOT_CONNECTED":      ErrCodeNotConnected,
}

// NormalizeErrorCode converts a domain error code to an API error code.
// Unmapped codes are treated as validation failures, which covers the
// guard errors (DRIVER_REQUIRED, POD_REQUIRED, INVALID_*).
func NormalizeErrorCode(domainCode string) string {
	if code, ok := domainCodeMap[domainCode]; ok {
		return code
	}
	return ErrCodeValidation
}

// GetHTTPStatus maps an API error code to its HTTP status code
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeInvalidTransition, ErrCodeNotConnected:
		return http.StatusUnprocessableEntity
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
