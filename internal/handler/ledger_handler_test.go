package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInRejectsBadBody(t *testing.T) {
	h := NewLedgerHandler(nil)
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed json", `{"event_id":`, "invalid json"},
		{"missing event", `{"member_ids":["member-1"]}`, "event_id is required"},
	}
	for _, tt := range tests {
		for _, route := range []struct {
			name string
			fn   echo.HandlerFunc
		}{{"single", h.CheckIn}, {"batch", h.BatchCheckIn}} {
			t.Run(tt.name+"/"+route.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/api/checkin", strings.NewReader(tt.body))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				rec := httptest.NewRecorder()
				c := echo.New().NewContext(req, rec)

				require.NoError(t, route.fn(c))
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				var body ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "bad_request", body.Error.Code)
				assert.Equal(t, tt.message, body.Error.Message)
			})
		}
	}
}
