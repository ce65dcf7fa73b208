package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/internal/model"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCatalog_TagsHitAfterMiss(t *testing.T) {
	_, client := newRedis(t)
	c := NewRedisCatalog(client, time.Minute)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) ([]*model.Tag, error) {
		loads++
		return []*model.Tag{{ID: 1, Name: "lunch", Slug: "lunch"}}, nil
	}

	for i := 0; i < 3; i++ {
		tags, err := c.Tags(ctx, load)
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, "lunch", tags[0].Slug)
	}
	assert.Equal(t, 1, loads)
	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestRedisCatalog_InvalidateAndPrefixKeys(t *testing.T) {
	_, client := newRedis(t)
	c := NewRedisCatalog(client, time.Minute)
	ctx := context.Background()

	loads := map[string]int{}
	loader := func(prefix string) func(context.Context) ([]*model.Ingredient, error) {
		return func(context.Context) ([]*model.Ingredient, error) {
			loads[prefix]++
			return []*model.Ingredient{{ID: 1, Name: prefix + "x", MeasurementUnit: "g"}}, nil
		}
	}

	_, err := c.Ingredients(ctx, "sa", loader("sa"))
	require.NoError(t, err)
	_, err = c.Ingredients(ctx, "SA", loader("sa"))
	require.NoError(t, err)
	_, err = c.Ingredients(ctx, "fl", loader("fl"))
	require.NoError(t, err)
	assert.Equal(t, 1, loads["sa"])
	assert.Equal(t, 1, loads["fl"])

	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Ingredients(ctx, "sa", loader("sa"))
	require.NoError(t, err)
	assert.Equal(t, 2, loads["sa"])
}

func TestRedisCatalog_DegradesWhenRedisDown(t *testing.T) {
	mr, client := newRedis(t)
	c := NewRedisCatalog(client, time.Minute)
	mr.Close()

	tags, err := c.Tags(context.Background(), func(context.Context) ([]*model.Tag, error) {
		return []*model.Tag{{ID: 2}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestRedisCatalog_LoadErrorNotCached(t *testing.T) {
	_, client := newRedis(t)
	c := NewRedisCatalog(client, time.Minute)
	boom := errors.New("boom")

	_, err := c.Tags(context.Background(), func(context.Context) ([]*model.Tag, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestRedisDenylist(t *testing.T) {
	mr, client := newRedis(t)
	d := NewRedisDenylist(client)
	ctx := context.Background()

	require.NoError(t, d.Deny(ctx, "abc", time.Now().Add(time.Minute)))
	denied, err := d.Denied(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, denied)

	mr.FastForward(2 * time.Minute)
	denied, err = d.Denied(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, denied)

	require.NoError(t, d.Deny(ctx, "old", time.Now().Add(-time.Second)))
	denied, err = d.Denied(ctx, "old")
	require.NoError(t, err)
	assert.False(t, denied)
}

func TestMemoryDenylist(t *testing.T) {
	d := NewMemoryDenylist()
	ctx := context.Background()

	require.NoError(t, d.Deny(ctx, "abc", time.Now().Add(time.Minute)))
	require.NoError(t, d.Deny(ctx, "expired", time.Now().Add(-time.Minute)))

	denied, _ := d.Denied(ctx, "abc")
	assert.True(t, denied)
	denied, _ = d.Denied(ctx, "expired")
	assert.False(t, denied)
}
