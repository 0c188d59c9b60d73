package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeValidation, http.StatusUnprocessableEntity},
		{ErrCodeEmptyBatch, http.StatusBadRequest},
		{ErrCodeAlreadyPrinted, http.StatusConflict},
		{ErrCodeCarrierUnconfigured, http.StatusConflict},
		{ErrCodeCarrierFailure, http.StatusBadGateway},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		// Domain codes fold into the API namespace
		{"NOT_FOUND", ErrCodeNotFound},
		{"EMPTY_BATCH", ErrCodeEmptyBatch},
		{"ALREADY_PRINTED", ErrCodeAlreadyPrinted},
		{"CARRIER_UNCONFIGURED", ErrCodeCarrierUnconfigured},
		{"CARRIER_ERROR", ErrCodeCarrierFailure},
		{"VALIDATION_ERROR", ErrCodeValidation},
		{"INVALID_STATE", ErrCodeConflict},
		// API codes pass through
		{ErrCodeNotFound, ErrCodeNotFound},
		{ErrCodeCarrierFailure, ErrCodeCarrierFailure},
		// Unknown codes are masked
		{"INVALID_ORDER_NUMBER", ErrCodeInternal},
		{"", ErrCodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeErrorCode(tt.code), tt.code)
	}
}

func TestResponseEnvelope(t *testing.T) {
	ok := NewSuccessResponse(map[string]string{"key": "value"})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	withMeta := NewSuccessResponseWithMeta(nil, 41, 2, 20)
	assert.Equal(t, int64(41), withMeta.Meta.Total)
	assert.Equal(t, 3, withMeta.Meta.TotalPages)

	errResp := NewErrorResponseWithRequestID(ErrCodeNotFound, "order not found", "req-1")
	assert.False(t, errResp.Success)
	assert.Equal(t, ErrCodeNotFound, errResp.Error.Code)
	assert.Equal(t, "req-1", errResp.Error.RequestID)
}
