package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKeyValue runs the behaviour every backend must share.
func exerciseKeyValue(t *testing.T, kv KeyValue) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "bookstore-cart", `{"items":[],"total":0,"itemCount":0}`))
	got, err := kv.Get(ctx, "bookstore-cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[],"total":0,"itemCount":0}`, got)

	// Overwrite replaces the whole value
	require.NoError(t, kv.Set(ctx, "bookstore-cart", `{"items":[{"book":{"id":"1"},"quantity":2}]}`))
	got, err = kv.Get(ctx, "bookstore-cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[{"book":{"id":"1"},"quantity":2}]}`, got)

	// Keys are independent
	require.NoError(t, kv.Set(ctx, "moodHistory", `[]`))
	got, err = kv.Get(ctx, "moodHistory")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)
	got, err = kv.Get(ctx, "bookstore-cart")
	require.NoError(t, err)
	assert.Contains(t, got, `"quantity":2`)

	// Empty string is a value, not absence
	require.NoError(t, kv.Set(ctx, "empty", ""))
	got, err = kv.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestMemoryStore_KeyValue(t *testing.T) {
	exerciseKeyValue(t, NewMemoryStore())
}

func TestMemoryStore_ConcurrentWriters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", id%4)
			_ = s.Set(ctx, key, fmt.Sprint(id))
			_, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		_, err := s.Get(ctx, fmt.Sprintf("k%d", i))
		assert.NoError(t, err)
	}
	_, err := s.Get(ctx, "k4")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
