package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.GenerateToken(3, "alice", "clerk", "v1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 3, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "clerk", claims.Role)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, err := m.GenerateToken(3, "alice", "clerk", "v1")
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewManager("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken(3, "alice", "clerk", "v1")
	require.NoError(t, err)
	_, err = m.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
