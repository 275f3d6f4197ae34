package rpc

import (
	"testing"

	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withNow pins the auth clock to *at for the duration of the test.
func withNow(t *testing.T, at *gtime.Instant) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() gtime.Instant { return *at }
	t.Cleanup(func() { nowFunc = prev })
}

func TestAuthenticate(t *testing.T) {
	am, err := NewAuthManager("secret")
	require.NoError(t, err)

	token, err := am.Authenticate("secret", 10*gtime.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, am.ValidateToken(token))
	assert.Equal(t, 1, am.TokenCount())

	_, err = am.Authenticate("wrong", 10*gtime.Minute)
	assert.Error(t, err)
	assert.Equal(t, 1, am.TokenCount())
	assert.False(t, am.ValidateToken("bogus"))
}

func TestTokensAreUnique(t *testing.T) {
	now := gtime.Unix(1700000000, 0)
	withNow(t, &now)

	am, err := NewAuthManager("secret")
	require.NoError(t, err)
	a, err := am.Authenticate("secret", gtime.Minute)
	require.NoError(t, err)
	b, err := am.Authenticate("secret", gtime.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, am.TokenCount())
}

func TestTokenExpiry(t *testing.T) {
	now := gtime.Unix(1700000000, 0)
	withNow(t, &now)

	am, err := NewAuthManager("secret")
	require.NoError(t, err)
	token, err := am.Authenticate("secret", gtime.Minute)
	require.NoError(t, err)

	now = now.Add(gtime.Minute)
	assert.True(t, am.ValidateToken(token), "token is valid up to its expiration instant")

	now = now.Add(gtime.Nanosecond)
	assert.False(t, am.ValidateToken(token))
	assert.Equal(t, 0, am.TokenCount())
}

func TestCleanupExpiredTokens(t *testing.T) {
	now := gtime.Unix(1700000000, 0)
	withNow(t, &now)

	am, err := NewAuthManager("secret")
	require.NoError(t, err)
	_, err = am.Authenticate("secret", gtime.Second)
	require.NoError(t, err)
	keep, err := am.Authenticate("secret", gtime.Hour)
	require.NoError(t, err)

	now = now.Add(2 * gtime.Second)
	assert.Equal(t, 1, am.CleanupExpiredTokens())
	assert.Equal(t, 1, am.TokenCount())
	assert.True(t, am.ValidateToken(keep))
}

func TestRevokeToken(t *testing.T) {
	am, err := NewAuthManager("secret")
	require.NoError(t, err)
	token, err := am.Authenticate("secret", gtime.Hour)
	require.NoError(t, err)

	am.RevokeToken(token)
	assert.False(t, am.ValidateToken(token))
}
