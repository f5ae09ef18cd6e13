package security

import (
	"testing"
	"time"

	"probe-wizard/config"
	"probe-wizard/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService(&config.SessionConfig{
		Secret: "0123456789abcdef0123",
		TTL:    time.Hour,
	})
}

func TestSessionTokenRoundTrip(t *testing.T) {
	ts := newTestTokenService()

	token, err := ts.GenerateSessionToken("session-1")
	require.NoError(t, err)

	claims, err := ts.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "session-1", claims.Subject)
}

func TestSessionTokenExpires(t *testing.T) {
	ts := newTestTokenService()
	issued := time.Now()
	ts.now = func() time.Time { return issued }

	token, err := ts.GenerateSessionToken("session-1")
	require.NoError(t, err)

	ts.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = ts.ValidateSessionToken(token)
	assert.True(t, apperror.IsKind(err, apperror.Unauthorised))
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := newTestTokenService().GenerateSessionToken("session-1")
	require.NoError(t, err)

	other := NewTokenService(&config.SessionConfig{Secret: "another-secret-value", TTL: time.Hour})
	_, err = other.ValidateSessionToken(token)
	assert.True(t, apperror.IsKind(err, apperror.Unauthorised))
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := newTestTokenService().ValidateSessionToken("not.a.jwt")
	assert.True(t, apperror.IsKind(err, apperror.Unauthorised))
}
