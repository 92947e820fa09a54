package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shinyyama/checkin-points/internal/auth"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidInput    = errors.New("invalid input")

	ErrEventNotFound     = fmt.Errorf("event %w", ErrNotFound)
	ErrMemberNotFound    = fmt.Errorf("member %w", ErrNotFound)
	ErrRecordNotFound    = fmt.Errorf("check-in record %w", ErrNotFound)
	ErrEventNotCheckable = errors.New("event is not open for check-in")
)

// now is swapped in tests.
var now = time.Now

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireIdentity(ctx context.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(ctx)
	if !ok || id.Username == "" {
		return auth.Identity{}, ErrUnauthenticated
	}
	return id, nil
}

func requireAdmin(ctx context.Context) (auth.Identity, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return id, err
	}
	if id.Role != auth.RoleAdmin {
		return id, ErrForbidden
	}
	return id, nil
}

// clampPoints keeps balances at or above zero.
func clampPoints(v float64) float64 {
	return math.Max(0, v)
}
