package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := NewTTLCache[int](4, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// Overwrite keeps a single entry.
	c.Set("a", 2)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Size())
}

func TestTTLCache_Expiry(t *testing.T) {
	now := time.Now()
	c := NewTTLCache[string](4, 5*time.Minute)
	c.clock = func() time.Time { return now }

	c.Set("report", "fresh")

	now = now.Add(4 * time.Minute)
	v, ok := c.Get("report")
	require.True(t, ok)
	assert.Equal(t, "fresh", v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("report")
	assert.False(t, ok)
	assert.Zero(t, c.Size())
}

func TestTTLCache_LRUEviction(t *testing.T) {
	c := NewTTLCache[int](3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch "a" so "b" becomes the least recently used.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", 4)
	assert.Equal(t, 3, c.Size())

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("d")
	assert.True(t, ok)
}

func TestTTLCache_Purge(t *testing.T) {
	c := NewTTLCache[int](8, time.Minute)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	require.Equal(t, 5, c.Size())

	c.Purge()
	assert.Zero(t, c.Size())
	_, ok := c.Get("k0")
	assert.False(t, ok)

	// Cache remains usable after a purge.
	c.Set("k0", 42)
	v, ok := c.Get("k0")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}
