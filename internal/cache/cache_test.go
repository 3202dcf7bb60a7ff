package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()
	c := New("", "", 0)

	value, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, value)

	payload := []byte("paris")
	require.NoError(t, c.Set(ctx, "city", payload, time.Minute))
	payload[0] = 'P'

	value, err = c.Get(ctx, "city")
	require.NoError(t, err)
	assert.Equal(t, []byte("paris"), value, "stored values are copied")

	require.NoError(t, c.Delete(ctx, "city"))
	value, _ = c.Get(ctx, "city")
	assert.Nil(t, value)
}

func TestMemoryClient_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", []byte("y"), 0))
	time.Sleep(5 * time.Millisecond)

	value, _ := c.Get(ctx, "short")
	assert.Nil(t, value)
	value, _ = c.Get(ctx, "forever")
	assert.Equal(t, []byte("y"), value)
}

func TestRedisClient_FailsSafe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()

	assert.Error(t, c.Ping(ctx))

	value, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, value)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestRedisClient_StrictReportsErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()

	assert.Error(t, c.SetStrict(ctx, "k", []byte("v"), time.Minute))
	assert.Error(t, c.DeleteStrict(ctx, "k"))
}

func TestMemoryClient_Strict(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	require.NoError(t, c.SetStrict(ctx, "k", []byte("v"), 0))
	value, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, c.DeleteStrict(ctx, "k"))
	value, _ = c.Get(ctx, "k")
	assert.Nil(t, value)
}

func TestNilClient(t *testing.T) {
	var c *Client
	ctx := context.Background()

	value, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, value)
	assert.NoError(t, c.Set(ctx, "k", nil, 0))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}
