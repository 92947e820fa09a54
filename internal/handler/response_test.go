package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/checkin-points/internal/auth"
	"github.com/shinyyama/checkin-points/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, "unauthorized"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"event not found", service.ErrEventNotFound, http.StatusNotFound, "not_found"},
		{"record not found", service.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"not checkable", fmt.Errorf("check in: %w", service.ErrEventNotCheckable), http.StatusBadRequest, "event_not_checkable"},
		{"invalid", service.ErrInvalidInput, http.StatusBadRequest, "bad_request"},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, writeError(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}
