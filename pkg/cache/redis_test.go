package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a test Redis client using miniredis
func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := &Client{
		Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}

	return client, mr
}

func TestClient_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	err := client.Set(ctx, "contacts:all", `[{"Id":1}]`, 1*time.Minute)
	require.NoError(t, err)

	val, err := client.Get(ctx, "contacts:all")
	require.NoError(t, err)
	assert.Equal(t, `[{"Id":1}]`, val)
}

func TestClient_GetMissingKey(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	_, err := client.Get(context.Background(), "quotes:all")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestClient_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	_ = client.Set(ctx, "deals:all", "a", 1*time.Minute)
	_ = client.Set(ctx, "deals:stats", "b", 1*time.Minute)

	err := client.Delete(ctx, "deals:all", "deals:stats")
	require.NoError(t, err)

	exists, err := client.Exists(ctx, "deals:all")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_DeletePattern(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	_ = client.Set(ctx, "companies:all", "a", 1*time.Minute)
	_ = client.Set(ctx, "companies:42", "b", 1*time.Minute)
	_ = client.Set(ctx, "contacts:all", "c", 1*time.Minute)

	err := client.DeletePattern(ctx, "companies:*")
	require.NoError(t, err)

	exists, _ := client.Exists(ctx, "companies:all")
	assert.False(t, exists)
	exists, _ = client.Exists(ctx, "companies:42")
	assert.False(t, exists)

	// Other tables untouched
	exists, _ = client.Exists(ctx, "contacts:all")
	assert.True(t, exists)
}
