package dto

import "net/http"

// API error codes returned in the error envelope. Domain errors carry
// bare codes (NOT_FOUND, EMPTY_BATCH); NormalizeErrorCode folds them
// into this ERR_ namespace before the response is written.
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeConflict     = "ERR_CONFLICT"
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeInternal     = "ERR_INTERNAL"

	// Fulfillment pipeline codes
	ErrCodeEmptyBatch          = "ERR_EMPTY_BATCH"
	ErrCodeAlreadyPrinted      = "ERR_ALREADY_PRINTED"
	ErrCodeCarrierUnconfigured = "ERR_CARRIER_UNCONFIGURED"
	ErrCodeCarrierFailure      = "ERR_CARRIER_FAILURE"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeValidation:   http.StatusUnprocessableEntity,
	ErrCodeInternal:     http.StatusInternalServerError,

	ErrCodeEmptyBatch:          http.StatusBadRequest,
	ErrCodeAlreadyPrinted:      http.StatusConflict,
	ErrCodeCarrierUnconfigured: http.StatusConflict,
	ErrCodeCarrierFailure:      http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status for an API error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping translates the bare codes used by domain errors
// into the API namespace
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeConflict,
	"INVALID_INPUT":        ErrCodeBadRequest,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"INVALID_STATE":        ErrCodeConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"EMPTY_BATCH":          ErrCodeEmptyBatch,
	"ALREADY_PRINTED":      ErrCodeAlreadyPrinted,
	"CARRIER_UNCONFIGURED": ErrCodeCarrierUnconfigured,
	"CARRIER_ERROR":        ErrCodeCarrierFailure,
}

// NormalizeErrorCode converts a domain error code into its API
// counterpart. Codes already in the ERR_ namespace pass through,
// anything unrecognized becomes ERR_INTERNAL.
func NormalizeErrorCode(code string) string {
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	if mapped, ok := domainErrorCodeMapping[code]; ok {
		return mapped
	}
	return ErrCodeInternal
}
