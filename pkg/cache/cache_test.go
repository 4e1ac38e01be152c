package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitsAndMisses(t *testing.T) {
	c := New(8)
	//
	first, err := c.Parse("i j")
	require.NoError(t, err)

	second, err := c.Parse("i j")
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
	//
	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 8, stats.MaxSize)
}

func TestCacheFailuresNotCached(t *testing.T) {
	c := New(8)
	//
	_, err := c.Parse("(i")
	require.Error(t, err)

	_, err = c.Parse("(i")
	require.Error(t, err)
	//
	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
	assert.Equal(t, 0, stats.Size)
}

func TestCacheEviction(t *testing.T) {
	c := New(2)
	//
	for _, source := range []string{"a", "b", "c"} {
		_, err := c.Parse(source)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, c.Stats().Size)
	// "a" was evicted, so parsing it again is a miss.
	_, err := c.Parse("a")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.Stats().Hits)
}

func TestCacheClear(t *testing.T) {
	c := New(8)
	//
	_, err := c.Parse("i j")
	require.NoError(t, err)

	_, err = c.Parse("i j")
	require.NoError(t, err)
	//
	c.Clear()
	//
	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, 8, stats.MaxSize)
}

func TestCacheResize(t *testing.T) {
	c := New(2)
	//
	_, err := c.Parse("i j")
	require.NoError(t, err)
	//
	c.Resize(16)
	//
	stats := c.Stats()
	assert.Equal(t, 16, stats.MaxSize)
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, uint64(0), stats.Misses)
}

func TestCacheInvalidCapacity(t *testing.T) {
	assert.Panics(t, func() { New(0) })
	assert.Panics(t, func() { New(-1) })
}

func TestCacheConcurrent(t *testing.T) {
	c := New(32)
	sources := []string{"i j", "... i", "*x k", "(2*k)", "_ _"}
	//
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := 0; i < 100; i++ {
				_, err := c.Parse(sources[i%len(sources)])
				assert.NoError(t, err)
			}
		}()
	}

	wg.Wait()
	//
	stats := c.Stats()
	assert.Equal(t, uint64(800), stats.Hits+stats.Misses)
	assert.Equal(t, len(sources), stats.Size)
}

func TestDefaultCache(t *testing.T) {
	s, err := Parse("batch t d")
	require.NoError(t, err)
	assert.Equal(t, "[batch t d]", s.String())
	//
	assert.Equal(t, DefaultCapacity, Default().Stats().MaxSize)
}
