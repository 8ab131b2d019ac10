package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"location", apperror.New(apperror.CodeInvalidLocation, "too far"), http.StatusBadRequest, "INVALID_LOCATION"},
		{"balance", apperror.New(apperror.CodeInsufficientBalance, "no days"), http.StatusBadRequest, "INSUFFICIENT_BALANCE"},
		{"transition", apperror.New(apperror.CodeInvalidTransition, "done"), http.StatusBadRequest, "INVALID_TRANSITION"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperror.New(apperror.CodeNotFound, "gone")), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", apperror.New(apperror.CodeForbidden, "no"), http.StatusForbidden, "FORBIDDEN"},
		{"unauthorized", apperror.New(apperror.CodeUnauthorized, "who"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"conflict", apperror.New(apperror.CodeConflict, "dup"), http.StatusConflict, "CONFLICT"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed"))

	body := decode(t, rec)
	assert.NotContains(t, body.Error.Message, "password")
}

func TestHandleError_Validation(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add("latitude", "latitude is required")

	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("decode: %w", errs.Err()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "latitude is required", body.Error.Details["latitude"])
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Punched in", map[string]string{"id": "a"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Punched in", body.Message)
	assert.Nil(t, body.Error)
}
