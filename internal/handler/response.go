package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/checkin-points/internal/auth"
	"github.com/shinyyama/checkin-points/internal/reqctx"
	"github.com/shinyyama/checkin-points/internal/service"
	log "github.com/sirupsen/logrus"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

// writeError maps service errors onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "authentication required"))
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "admin role required"))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", err.Error()))
	case errors.Is(err, service.ErrEventNotCheckable):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("event_not_checkable", err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	default:
		log.WithError(err).
			WithField("rid", reqctx.RequestID(c.Request().Context())).
			WithField("path", c.Path()).
			Error("request failed")
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "internal server error"))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
