package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	assert.False(t, IsAdmin(context.Background()))

	ctx := WithIdentity(context.Background(), Identity{UserID: "user-1", Username: "admin", Role: RoleAdmin})
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "admin", got.Username)
	assert.True(t, IsAdmin(ctx))

	ctx = WithIdentity(context.Background(), Identity{Username: "kiosk", Role: RoleUser})
	assert.False(t, IsAdmin(ctx))
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	tok, err := issuer.Issue("admin", RoleAdmin)
	require.NoError(t, err)

	claims, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	tok, err := issuer.Issue("admin", RoleAdmin)
	require.NoError(t, err)

	other := NewTokenIssuer("another-secret", time.Hour)
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccounts(t *testing.T) {
	accts, err := NewAccounts("admin", "admin123", "Administrator", []string{"kiosk:pass", " "})
	require.NoError(t, err)

	acct, err := accts.Authenticate("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, acct.Role)
	assert.Equal(t, "user-1", acct.ID)

	acct, err = accts.Authenticate("kiosk", "pass")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, acct.Identity().Role)

	_, err = accts.Authenticate("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = accts.Authenticate("ghost", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, ok := accts.Lookup("kiosk")
	assert.True(t, ok)
}

func TestAccountsInvalidEntries(t *testing.T) {
	_, err := NewAccounts("admin", "pw", "Admin", []string{"nopassword"})
	assert.Error(t, err)
	_, err = NewAccounts("admin", "pw", "Admin", []string{"admin:again"})
	assert.Error(t, err)
	_, err = NewAccounts("", "pw", "Admin", nil)
	assert.Error(t, err)
}
