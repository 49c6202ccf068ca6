package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test")
}

func TestRedisStoreInvalidate(t *testing.T) {
	ctx := context.Background()
	s := newRedisStore(t)

	set(t, s, "blogs:slug:hello", "post", KindTag("blogs"), BlogSlugTag("hello"))
	set(t, s, "projects", "projects", KindTag("projects"))

	v, ok, err := s.Get(ctx, "blogs:slug:hello")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "post", string(v))

	require.NoError(t, s.Invalidate(ctx, BlogSlugTag("hello")))

	_, ok, err = s.Get(ctx, "blogs:slug:hello")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Get(ctx, "projects")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStoreIgnoresStaleGenerations(t *testing.T) {
	ctx := context.Background()
	s := newRedisStore(t)

	stamp, err := s.Stamp(ctx, KindTag("blogs"))
	require.NoError(t, err)
	require.NoError(t, s.Invalidate(ctx, KindTag("blogs")))
	require.NoError(t, s.Set(ctx, "blogs:published", []byte("pre-write"), time.Minute, stamp))

	_, ok, err := s.Get(ctx, "blogs:published")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, s.client.Exists(ctx, s.valueKey("blogs:published")).Val(), "stale loads are not written")
}

func TestRedisStoreSetKeepsCurrentGenerations(t *testing.T) {
	ctx := context.Background()
	s := newRedisStore(t)
	require.NoError(t, s.Invalidate(ctx, KindTag("blogs")))

	stamp, err := s.Stamp(ctx, KindTag("blogs"), BlogSlugTag("hello"))
	require.NoError(t, err)
	assert.Equal(t, Stamp{KindTag("blogs"): 1, BlogSlugTag("hello"): 0}, stamp)
	require.NoError(t, s.Set(ctx, "blogs:slug:hello", []byte("fresh"), time.Minute, stamp))

	v, ok, err := s.Get(ctx, "blogs:slug:hello")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fresh", string(v))
	assert.Equal(t, []string{"blogs:slug:hello"}, s.client.SMembers(ctx, s.tagKey(BlogSlugTag("hello"))).Val())
}
