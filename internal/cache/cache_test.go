package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/darkmatter-vc/portal/internal/cache"
)

func TestSetAndGet(t *testing.T) {
	c := cache.New[string](time.Minute)

	_, ok := c.Get("missing")
	require.False(t, ok)

	c.Set("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)

	c.Set("k", "v2")
	got, _ = c.Get("k")
	require.Equal(t, "v2", got)
}

func TestExpiry(t *testing.T) {
	now := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	c := cache.New[int](5*time.Minute, cache.WithNowTime[int](func() time.Time { return now }))

	c.Set("k", 42)
	_, ok := c.Get("k")
	require.True(t, ok)

	now = now.Add(5*time.Minute + time.Second)
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Zero(t, c.Len())
}

func TestClear(t *testing.T) {
	c := cache.New[string](time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	require.Equal(t, 2, c.Len())
	require.ElementsMatch(t, []string{"a", "b"}, c.Keys())

	c.Clear()
	require.Zero(t, c.Len())
	_, ok := c.Get("a")
	require.False(t, ok)
}
