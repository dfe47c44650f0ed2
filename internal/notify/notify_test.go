package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatchSignal(t *testing.T) {
	ctx := context.Background()
	signal := NewInMemory()

	dispatched, err := signal.Dispatched(ctx, "contract-1")
	require.NoError(t, err)
	assert.False(t, dispatched)

	require.NoError(t, signal.MarkDispatched(ctx, "contract-1"))

	dispatched, err = signal.Dispatched(ctx, "contract-1")
	require.NoError(t, err)
	assert.True(t, dispatched)

	dispatched, err = signal.Dispatched(ctx, "contract-2")
	require.NoError(t, err)
	assert.False(t, dispatched, "signals are per contract")

	// Marking twice is harmless.
	require.NoError(t, signal.MarkDispatched(ctx, "contract-1"))
	dispatched, err = signal.Dispatched(ctx, "contract-1")
	require.NoError(t, err)
	assert.True(t, dispatched)
}
