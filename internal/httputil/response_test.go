package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pulsecrm/esign/internal/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func decodeErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedError   string
		expectedMessage string
	}{
		{
			name:            "not found",
			err:             apperrors.Wrap(apperrors.ErrNotFound, "signature request not found"),
			expectedStatus:  http.StatusNotFound,
			expectedError:   "not_found",
			expectedMessage: "Invalid or expired signature request",
		},
		{
			name:            "expired",
			err:             apperrors.Wrap(apperrors.ErrExpired, "window elapsed"),
			expectedStatus:  http.StatusGone,
			expectedError:   "expired",
			expectedMessage: "This signature request has expired",
		},
		{
			name:            "conflict",
			err:             apperrors.Wrap(apperrors.ErrConflict, "already signed"),
			expectedStatus:  http.StatusConflict,
			expectedError:   "conflict",
			expectedMessage: "This document has already been signed",
		},
		{
			name:            "invalid input exposes the message",
			err:             apperrors.Wrap(apperrors.ErrInvalidInput, "signer_email: must be a valid email address"),
			expectedStatus:  http.StatusBadRequest,
			expectedError:   "invalid_input",
			expectedMessage: "signer_email: must be a valid email address: invalid input",
		},
		{
			name:            "upstream failure",
			err:             apperrors.Wrap(apperrors.ErrUpstream, "document fetch returned status 500"),
			expectedStatus:  http.StatusBadGateway,
			expectedError:   "upstream_failure",
			expectedMessage: "A dependency failed while processing the request",
		},
		{
			name:            "unknown error hides details",
			err:             errors.New("pq: connection reset"),
			expectedStatus:  http.StatusInternalServerError,
			expectedError:   "internal_error",
			expectedMessage: "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext(t)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			response := decodeErrorResponse(t, recorder)
			assert.Equal(t, tt.expectedError, response.Error)
			assert.Equal(t, tt.expectedMessage, response.Message)
		})
	}
}

func TestHandleErrorGin_NilError(t *testing.T) {
	c, recorder := newTestContext(t)

	HandleErrorGin(c, nil, nil)

	assert.Empty(t, recorder.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	c, recorder := newTestContext(t)

	HandleBadRequestGin(c, errors.New("invalid character '}'"), nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	response := decodeErrorResponse(t, recorder)
	assert.Equal(t, "bad_request", response.Error)
	assert.Equal(t, "invalid character '}'", response.Message)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, recorder := newTestContext(t)

	HandleValidationErrorGin(c, errors.New("consent: cannot be blank"), nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	response := decodeErrorResponse(t, recorder)
	assert.Equal(t, "validation_error", response.Error)
	assert.Equal(t, "consent: cannot be blank", response.Message)
}

func TestMakeJSONResponse(t *testing.T) {
	recorder := httptest.NewRecorder()

	MakeJSONResponse(recorder, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"not ready"}`, recorder.Body.String())
}
