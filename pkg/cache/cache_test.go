package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_NoClientIsNoop(t *testing.T) {
	RDB = nil
	s := Default()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	var out map[string]int
	assert.False(t, s.Get(ctx, "k", &out))
	assert.NoError(t, s.Del(ctx, "k"))
}

func TestMemory_RoundTripAndExpiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "report", []string{"pancakes"}, time.Minute))

	var got []string
	require.True(t, m.Get(ctx, "report", &got))
	assert.Equal(t, []string{"pancakes"}, got)

	now = now.Add(time.Minute)
	assert.False(t, m.Get(ctx, "report", &got))
}

func TestMemory_Del(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "a", 1, 0))
	require.NoError(t, m.Set(ctx, "b", 2, 0))

	require.NoError(t, m.Del(ctx, "a", "b"))

	var n int
	assert.False(t, m.Get(ctx, "a", &n))
	assert.False(t, m.Get(ctx, "b", &n))
}
