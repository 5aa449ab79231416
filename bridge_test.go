package bridge_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/bridge"
)

func TestSchemaDefaultMethods(t *testing.T) {
	t.Parallel()

	type TestSchema struct {
		bridge.Schema
	}

	s := TestSchema{}
	assert.Nil(t, s.Fields())
	assert.Nil(t, s.Mixin())
	assert.Nil(t, s.Annotations())

	var _ bridge.Interface = s
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	k := bridge.CacheKey{Table: "articles", PK: "1", Group: "content"}
	assert.Equal(t, "articles:1:content", k.String())
	assert.Equal(t, "articles:1:", k.Prefix())
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bridge.NewMemoryCache()

	v, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, c.Set(ctx, "articles:1:content", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "articles:1:meta", []byte("b"), time.Hour))
	require.NoError(t, c.Set(ctx, "articles:2:content", []byte("c"), 0))

	v, err = c.Get(ctx, "articles:1:content")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), v)

	require.NoError(t, c.DeletePrefix(ctx, "articles:1:"))
	v, _ = c.Get(ctx, "articles:1:meta")
	assert.Nil(t, v)
	v, _ = c.Get(ctx, "articles:2:content")
	assert.Equal(t, []byte("c"), v)

	require.NoError(t, c.Delete(ctx, "articles:2:content"))
	v, _ = c.Get(ctx, "articles:2:content")
	assert.Nil(t, v)
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bridge.NewMemoryCache()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(2 * time.Millisecond)
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}
