package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10)

	type payload struct {
		Name  string   `json:"name"`
		Tags  []string `json:"tags"`
		Count int64    `json:"count"`
	}

	in := payload{Name: "golang", Tags: []string{"go", "backend"}, Count: 3}
	require.NoError(t, c.Set(ctx, "k", in, time.Minute))

	out, err := Get[payload](ctx, c, "k")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10)

	require.NoError(t, c.Set(ctx, "k", "v", 30*time.Millisecond))

	_, err := c.Get(ctx, "k")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_EvictsOldestInsertedAtCapacity(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(3)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), i, time.Minute))
	}

	// Inserting a fourth entry pushes out the oldest one.
	require.NoError(t, c.Set(ctx, "k3", 3, time.Minute))

	_, err := c.Get(ctx, "k0")
	assert.ErrorIs(t, err, ErrCacheMiss)

	for i := 1; i <= 3; i++ {
		_, err := c.Get(ctx, fmt.Sprintf("k%d", i))
		assert.NoError(t, err)
	}
}

func TestMemoryCache_OverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2)

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, c.Set(ctx, "a", 3, time.Minute))

	out, err := Get[int](ctx, c, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, *out)

	_, err = c.Get(ctx, "b")
	assert.NoError(t, err)
}

func TestMemoryCache_DeleteByPattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10)

	require.NoError(t, c.Set(ctx, PostCommentsKey(1, 10, 0), "a", time.Minute))
	require.NoError(t, c.Set(ctx, PostCommentsKey(1, 10, 10), "b", time.Minute))
	require.NoError(t, c.Set(ctx, PostKey(2), "c", time.Minute))

	require.NoError(t, c.DeleteByPattern(ctx, PostCommentsPattern(1)))

	_, err := c.Get(ctx, PostCommentsKey(1, 10, 0))
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, PostCommentsKey(1, 10, 10))
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, PostKey(2))
	assert.NoError(t, err)
}

func TestGetOrSet_ProducerRunsOnceOnHit(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10)

	calls := 0
	produce := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := GetOrSet(ctx, c, "k", time.Minute, produce)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = GetOrSet(ctx, c, "k", time.Minute, produce)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrSet_FailedProducerNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10)

	calls := 0
	produce := func() (string, error) {
		calls++
		return "", assert.AnError
	}

	_, err := GetOrSet(ctx, c, "k", time.Minute, produce)
	require.Error(t, err)

	_, err = GetOrSet(ctx, c, "k", time.Minute, produce)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}
