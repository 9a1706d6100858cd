package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "weather:Delhi")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "weather:Delhi", []byte(`{"temperature":36}`), time.Minute))

	v, ok, err := c.Get(ctx, "weather:Delhi")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"temperature":36}`), v)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "forecast:Delhi", []byte(`{}`), 1800*time.Second))

	now = now.Add(1799 * time.Second)
	_, ok, err := c.Get(ctx, "forecast:Delhi")
	require.NoError(t, err)
	assert.True(t, ok, "entry must survive until its TTL")

	now = now.Add(2 * time.Second)
	_, ok, err = c.Get(ctx, "forecast:Delhi")
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire after its TTL")
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "weather:Delhi", []byte(`old`), time.Minute))
	require.NoError(t, c.Set(ctx, "weather:Delhi", []byte(`new`), time.Minute))

	v, ok, err := c.Get(ctx, "weather:Delhi")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`new`), v)
}
