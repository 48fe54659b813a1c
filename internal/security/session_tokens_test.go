package security

import (
	"testing"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-test"

func TestSessionTokens_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	codec, err := NewSessionTokens(testSecret, "storefront", "storefront-web", func() time.Time { return now })
	require.NoError(t, err)

	raw, err := codec.Issue(domain.Session{ID: "s-1", UserID: "u-1", ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	sid, uid, err := codec.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "s-1", sid)
	assert.Equal(t, "u-1", uid)
}

func TestSessionTokens_Rejects(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := now
	codec, err := NewSessionTokens(testSecret, "storefront", "storefront-web", func() time.Time { return clock })
	require.NoError(t, err)

	raw, err := codec.Issue(domain.Session{ID: "s-1", UserID: "u-1", ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		clock = now.Add(2 * time.Hour)
		defer func() { clock = now }()
		_, _, err := codec.Parse(raw)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewSessionTokens("another-secret-value", "storefront", "storefront-web", func() time.Time { return now })
		require.NoError(t, err)
		_, _, err = other.Parse(raw)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other, err := NewSessionTokens(testSecret, "storefront", "admin", func() time.Time { return now })
		require.NoError(t, err)
		_, _, err = other.Parse(raw)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := codec.Parse("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestNewSessionTokens_WeakSecret(t *testing.T) {
	_, err := NewSessionTokens("short", "iss", "aud", nil)
	assert.ErrorIs(t, err, ErrWeakSecret)
}
