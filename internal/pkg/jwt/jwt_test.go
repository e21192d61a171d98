package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "30m")

	token, expiresAt, err := svc.GenerateAccessToken("u1", "u1@example.com", user.RoleManager)
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.Equal(t, user.RoleManager, claims.Role)
	assert.Equal(t, expiresAt, claims.ExpiresAt.Unix())
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestJWTService_ParseRejects(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	t.Run("other secret", func(t *testing.T) {
		token, _, err := NewJWTService("other-secret", "1h").GenerateAccessToken("u1", "", user.RoleAdmin)
		require.NoError(t, err)

		_, err = svc.ParseAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
			"user_id": "u1",
			"type":    "refresh",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		_, err = svc.ParseAccessToken(token)
		assert.ErrorIs(t, err, ErrNotAccessToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ParseAccessToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestNewJWTService_BadTTLFallsBack(t *testing.T) {
	svc := NewJWTService("test-secret", "soon").(*JWTService)
	assert.Equal(t, time.Hour, svc.accessTTL)
}
