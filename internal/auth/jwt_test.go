package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundTrip(t *testing.T) {
	m := NewManager("test-secret", 15*time.Minute, 168*time.Hour)

	signed, err := m.Issue(42, TokenTypeAccess)
	require.NoError(t, err)

	claims, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssuePair(t *testing.T) {
	m := NewManager("test-secret", 15*time.Minute, 168*time.Hour)

	pair, err := m.IssuePair(7)
	require.NoError(t, err)
	require.NotEqual(t, pair.Access, pair.Refresh)

	access, err := m.Parse(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, access.TokenType)

	refresh, err := m.Parse(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.Equal(t, int64(7), refresh.UserID)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestParseExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, -time.Minute)

	signed, err := m.Issue(1, TokenTypeAccess)
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.Error(t, err)
}

func TestParseWrongSecret(t *testing.T) {
	signed, err := NewManager("secret-a", time.Minute, time.Hour).Issue(1, TokenTypeAccess)
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Minute, time.Hour).Parse(signed)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Minute, time.Hour)

	_, err := m.Parse("not-a-jwt")
	assert.Error(t, err)
}
