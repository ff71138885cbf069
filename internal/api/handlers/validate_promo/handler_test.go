package validate_promo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type stubPricing struct {
	valid bool
	err   error
}

func (s *stubPricing) ValidatePromoCode(ctx context.Context, promoCode string) (bool, error) {
	return s.valid, s.err
}

func doRequest(t *testing.T, handler *Handler, code string) *httptest.ResponseRecorder {
	t.Helper()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/promocodes/{code}/validate", handler.Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/promocodes/"+code+"/validate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ValidCode(t *testing.T) {
	handler := NewHandler(&stubPricing{valid: true}, noopLogger{})

	rec := doRequest(t, handler, "SAVE20")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PromoValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SAVE20", resp.Code)
	assert.True(t, resp.Valid)
}

func TestHandle_UnknownCode(t *testing.T) {
	handler := NewHandler(&stubPricing{valid: false}, noopLogger{})

	rec := doRequest(t, handler, "EXPIRED")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PromoValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
}

func TestHandle_ServiceError(t *testing.T) {
	handler := NewHandler(&stubPricing{err: errors.New("db down")}, noopLogger{})

	rec := doRequest(t, handler, "SAVE20")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
