//go:build integration

package pool

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Stock{"Coal": 3, "Log": 8}))
	require.NoError(t, store.Save(ctx, Stock{"Coal": 4}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stock{"Coal": 4}, got)

	require.NoError(t, store.Save(ctx, Stock{}))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CRAFTWISE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CRAFTWISE_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewRedisStore(ctx, addr, "craftwise:test:"+uuid.NewString())
	require.NoError(t, err)
	defer store.Close()

	testStoreContract(t, store)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CRAFTWISE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CRAFTWISE_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewMongoStore(ctx, uri, "craftwise_test", "pool_"+uuid.NewString()[:8])
	require.NoError(t, err)
	defer func() {
		_ = store.collection.Drop(context.Background())
		store.Close()
	}()

	testStoreContract(t, store)
}
