package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, claims, err := m.Generate(42)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret", time.Hour).Generate(1)
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	issued := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, _, err := m.Generate(1)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionStore_MemoryFallback(t *testing.T) {
	s := NewSessionStore(nil)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Revoke(t.Context(), "jti-1", now.Add(time.Minute)))
	revoked, err := s.IsRevoked(t.Context(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = s.IsRevoked(t.Context(), "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	// already expired tokens are not stored
	require.NoError(t, s.Revoke(t.Context(), "jti-2", now.Add(-time.Second)))
	revoked, _ = s.IsRevoked(t.Context(), "jti-2")
	assert.False(t, revoked)
}
