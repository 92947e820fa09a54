package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shinyyama/checkin-points/internal/auth"
	"github.com/shinyyama/checkin-points/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	accounts, err := auth.NewAccounts("admin", "admin123", "Administrator", []string{"kiosk:pw"})
	require.NoError(t, err)
	svc := service.NewAuthService(accounts, auth.NewTokenIssuer("secret", time.Hour))
	ctx := context.Background()

	_, err = svc.Login(ctx, "admin", "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	res, err := svc.Login(ctx, "kiosk", "pw")
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, auth.RoleUser, res.User.Role)

	id, err := svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "kiosk", id.Username)

	me, err := svc.Me(auth.WithIdentity(ctx, id))
	require.NoError(t, err)
	assert.Equal(t, id, me)

	_, err = svc.Me(ctx)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	// a valid token for an account that no longer exists
	other, err := auth.NewAccounts("root", "pw", "Root", nil)
	require.NoError(t, err)
	stale := service.NewAuthService(other, auth.NewTokenIssuer("secret", time.Hour))
	_, err = stale.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}
