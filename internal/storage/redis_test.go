package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore on it
func setupTestRedis(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	store := NewRedisStore(client, prefix)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestRedisStore_KeyValue(t *testing.T) {
	store, _ := setupTestRedis(t, "")
	exerciseKeyValue(t, store)
}

func TestRedisStore_PrefixAndNoTTL(t *testing.T) {
	store, mr := setupTestRedis(t, "bookmood")

	require.NoError(t, store.Set(context.Background(), "moodHistory", `[{"mood":3}]`))

	assert.True(t, mr.Exists("bookmood:moodHistory"))
	assert.False(t, mr.Exists("moodHistory"))
	assert.Zero(t, mr.TTL("bookmood:moodHistory"))

	got, err := mr.Get("bookmood:moodHistory")
	require.NoError(t, err)
	assert.Equal(t, `[{"mood":3}]`, got)
}

func TestRedisStore_ReadsExternalWrites(t *testing.T) {
	store, mr := setupTestRedis(t, "p")
	require.NoError(t, mr.Set("p:bookstore-cart", `{"items":[]}`))

	got, err := store.Get(context.Background(), "bookstore-cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, got)
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupTestRedis(t, "")
	mr.Close()

	_, err := store.Get(context.Background(), "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), "redis get failed")

	err = store.Set(context.Background(), "anything", "v")
	assert.ErrorContains(t, err, "redis set failed")
}
