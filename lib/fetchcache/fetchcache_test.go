package fetchcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := Open(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()

	_, ok := cache.Get(ctx, "https://example.org/articles/")
	require.False(t, ok)

	cache.Put(ctx, "https://example.org/articles/", "<html>one</html>")
	body, ok := cache.Get(ctx, "https://example.org/articles/")
	require.True(t, ok)
	require.Equal(t, "<html>one</html>", body)

	// overwrite wins
	cache.Put(ctx, "https://example.org/articles/", "<html>two</html>")
	body, ok = cache.Get(ctx, "https://example.org/articles/")
	require.True(t, ok)
	require.Equal(t, "<html>two</html>", body)
}
