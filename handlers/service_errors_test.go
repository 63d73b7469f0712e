package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "not found error",
			err:             services.ErrActorNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Not Found",
		},
		{
			name:            "validation error",
			err:             services.NewDomainError(services.ErrorTypeValidation, "invalid input", nil),
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "unprocessable",
		},
		{
			name:            "unprocessable error",
			err:             services.ErrMovieNotDeletable,
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "unprocessable",
		},
		{
			name:            "internal error hides cause",
			err:             services.WrapInternal("failed to list actors", errors.New("pq: password authentication failed")),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Internal Server Error",
		},
		{
			name:            "unknown error",
			err:             errors.New("something odd"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			HandleServiceError(w, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var response utils.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.False(t, response.Success)
			assert.Equal(t, tt.expectedStatus, response.Error)
			assert.Equal(t, tt.expectedMessage, response.Message)
			assert.NotContains(t, response.Message, "pq:")
		})
	}
}

func TestHandleServiceError_ValidationDetails(t *testing.T) {
	err := services.NewDomainError(services.ErrorTypeValidation, "invalid input", nil).
		WithDetail("age", "age must be less than or equal to 150")

	w := httptest.NewRecorder()
	HandleServiceError(w, err, zap.NewNop())

	var response utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, http.StatusUnprocessableEntity, response.Error)
	assert.Equal(t, "age must be less than or equal to 150", response.Details["age"])
}

func TestHandleServiceError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, nil, zap.NewNop())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
