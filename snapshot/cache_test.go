package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache_PutGet(t *testing.T) {
	c := NewCache()
	c.Put("hash1", "shape1", 42)
	v, ok := c.Get("hash1", "shape1")
	require.True(t, ok)
	require.Equal(t, 42, v)
}

func TestCache_MissOnDifferentShape(t *testing.T) {
	c := NewCache()
	c.Put("hash1", "shape1", 42)
	_, ok := c.Get("hash1", "shape2")
	require.False(t, ok)
}

func TestCache_InvalidateDropsGeneration(t *testing.T) {
	c := NewCache()
	c.Put("hash1", "shape1", 42)
	c.Invalidate("hash1")
	_, ok := c.Get("hash1", "shape1")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}
