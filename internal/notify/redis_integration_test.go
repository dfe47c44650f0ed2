//go:build integration

package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plansign/internal/notify"
	"plansign/pkg/testutil/containers"
)

func TestRedisDispatchSignal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	redis := containers.NewRedisContainer(t)
	signal := notify.NewRedis(redis.Client)

	dispatched, err := signal.Dispatched(ctx, "contract-1")
	require.NoError(t, err)
	assert.False(t, dispatched)

	require.NoError(t, signal.MarkDispatched(ctx, "contract-1"))

	dispatched, err = signal.Dispatched(ctx, "contract-1")
	require.NoError(t, err)
	assert.True(t, dispatched)

	t.Run("signal has no expiry", func(t *testing.T) {
		ttl, err := redis.Client.TTL(ctx, "plansign:dispatch:contract-1").Result()
		require.NoError(t, err)
		assert.Less(t, ttl.Seconds(), 0.0, "key should be persistent")
	})

	t.Run("marking twice keeps the signal", func(t *testing.T) {
		require.NoError(t, signal.MarkDispatched(ctx, "contract-1"))
		dispatched, err := signal.Dispatched(ctx, "contract-1")
		require.NoError(t, err)
		assert.True(t, dispatched)
	})
}
