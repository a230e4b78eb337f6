package cache

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type examEntry struct {
	CourseID  uint     `json:"course_id"`
	Questions []string `json:"questions"`
}

func setupRedisCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client, slog.New(slog.NewTextHandler(os.Stdout, nil)), "test:"), server
}

func TestRedisCache_SetGet(t *testing.T) {
	c, server := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "exam:1", examEntry{CourseID: 1, Questions: []string{"q1"}}, time.Minute))
	assert.True(t, server.Exists("test:exam:1"))

	var got examEntry
	require.NoError(t, c.Get(ctx, "exam:1", &got))
	assert.Equal(t, uint(1), got.CourseID)
	assert.Equal(t, []string{"q1"}, got.Questions)

	server.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "exam:1", &got), ErrCacheMiss)
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	c, server := setupRedisCache(t)
	require.NoError(t, server.Set("test:exam:2", "not-json"))

	var got examEntry
	assert.ErrorIs(t, c.Get(context.Background(), "exam:2", &got), ErrCacheMiss)
	assert.False(t, server.Exists("test:exam:2"))
}

func TestRedisCache_DeletePattern(t *testing.T) {
	c, server := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "exam:1", examEntry{CourseID: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, "exam:2", examEntry{CourseID: 2}, time.Minute))
	require.NoError(t, c.Set(ctx, "course:1", examEntry{CourseID: 1}, time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "exam:*"))
	assert.False(t, server.Exists("test:exam:1"))
	assert.False(t, server.Exists("test:exam:2"))
	assert.True(t, server.Exists("test:course:1"))

	require.NoError(t, c.Delete(ctx, "course:1"))
	assert.False(t, server.Exists("test:course:1"))
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	var v int
	assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrCacheMiss)
}
