package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"))

	signed, err := tokens.Issue(Identity{UserID: "u1", Email: "a@b.com", Role: "user"})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	id, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "a@b.com", id.Email)
	assert.Equal(t, "user", id.Role)
	assert.False(t, id.IsAdmin())
}

func TestVerify_AdminRole(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"))

	signed, err := tokens.Issue(Identity{UserID: "u1", Email: "admin@b.com", Role: "admin"})
	require.NoError(t, err)

	id, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())
}

func TestVerify_WrongSecret(t *testing.T) {
	signed, err := NewTokens([]byte("secret-a")).Issue(Identity{UserID: "u1"})
	require.NoError(t, err)

	_, err = NewTokens([]byte("secret-b")).Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"))

	_, err := tokens.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tokens := NewTokens([]byte("test-secret"))
	tokens.now = func() time.Time { return issued }

	signed, err := tokens.Issue(Identity{UserID: "u1"})
	require.NoError(t, err)

	// Still valid just before the TTL elapses.
	tokens.now = func() time.Time { return issued.Add(TokenTTL - time.Minute) }
	_, err = tokens.Verify(signed)
	require.NoError(t, err)

	// Rejected once the TTL has passed.
	tokens.now = func() time.Time { return issued.Add(TokenTTL + time.Minute) }
	_, err = tokens.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}
