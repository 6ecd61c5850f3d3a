package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"LINE_NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"ALREADY_CONFIRMED", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"EXCEEDS_RETURNABLE", http.StatusUnprocessableEntity},
		{"BATCH_MISMATCH", http.StatusUnprocessableEntity},
		{"DUPLICATE_LINE", http.StatusBadRequest},
		{"NO_LINES", http.StatusBadRequest},
		{"INVALID_WINDOW", http.StatusBadRequest},
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeInternal, http.StatusInternalServerError},
		// Unlisted INVALID_* codes are input problems
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"INVALID_CUSTOMER_NAME", http.StatusBadRequest},
		// Anything else unknown is an internal error
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2, 3}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewSuccessResponseWithMeta_ZeroPageSize(t *testing.T) {
	resp := NewSuccessResponseWithMeta(nil, 10, 1, 0)

	assert.Equal(t, 0, resp.Meta.TotalPages)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("INSUFFICIENT_STOCK", "Not enough stock", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	assert.Equal(t, "Not enough stock", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}
