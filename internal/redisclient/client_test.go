package redisclient

import (
	"context"
	"testing"

	"lumina-store/internal/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ kv.Store = (*Client)(nil)

func TestCartSlotRoundTrip(t *testing.T) {
	// Requires a running Redis on localhost:6379
	t.Skip("Integration test - requires redis")

	client, err := NewClient("localhost:6379", "", 15)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.GetClient().FlushDB(ctx).Err())

	_, err = client.Get(ctx, "lumina-cart")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, client.Set(ctx, "lumina-cart", `[{"id":"1","quantity":2}]`))

	v, err := client.Get(ctx, "lumina-cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1","quantity":2}]`, v)
}
