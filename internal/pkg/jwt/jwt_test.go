package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessTokenClaims(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute)
	employeeID := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "budi@example.com", &employeeID, user.RoleEmployee)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "budi@example.com", claims["email"])
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "EMPLOYEE", claims["role"])
	assert.Equal(t, false, claims["is_admin"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestGenerateAccessTokenAdminWithoutEmployee(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, _, err := svc.GenerateAccessToken("user-2", "admin@example.com", nil, user.RoleAdmin)
	require.NoError(t, err)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, true, claims["is_admin"])
	assert.Nil(t, claims["employee_id"])
}

func TestRedisRevocationStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRevocationStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-a", time.Now().Add(10*time.Minute)))
	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.False(t, mr.Exists(revokedKeyPrefix+"token-a"), "raw tokens must not be stored")

	mr.FastForward(11 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationStoreIgnoresExpiredTokens(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRevocationStore(client)
	require.NoError(t, store.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.Empty(t, mr.Keys())
}

func TestMemoryRevocationStore(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-b", time.Now().Add(time.Minute)))
	revoked, err := store.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.True(t, revoked)

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	revoked, err = store.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}
