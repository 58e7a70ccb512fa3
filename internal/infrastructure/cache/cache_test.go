package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, zap.NewNop()), mr
}

type cachedContact struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestCacheSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	original := cachedContact{ID: "c1", Name: "Ada Lovelace"}
	c.Set(ctx, "contacts:item:tenant:c1", original, time.Minute)

	var got cachedContact
	require.True(t, c.Get(ctx, "contacts:item:tenant:c1", &got))
	assert.Equal(t, original, got)
}

func TestCacheGetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got cachedContact
	assert.False(t, c.Get(context.Background(), "contacts:item:tenant:missing", &got))
}

func TestCacheGetCorruptEntryDropsKey(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("contacts:item:tenant:bad", "{not json"))

	var got cachedContact
	assert.False(t, c.Get(ctx, "contacts:item:tenant:bad", &got))
	assert.False(t, mr.Exists("contacts:item:tenant:bad"))
}

func TestCacheTTLExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "contacts:list:tenant:p1", cachedContact{ID: "c1"}, 5*time.Minute)
	require.True(t, c.Exists(ctx, "contacts:list:tenant:p1"))

	mr.FastForward(6 * time.Minute)

	var got cachedContact
	assert.False(t, c.Get(ctx, "contacts:list:tenant:p1", &got))
}

func TestCacheDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "deals:item:tenant:d1", cachedContact{ID: "d1"}, time.Minute)
	c.Delete(ctx, "deals:item:tenant:d1")

	assert.False(t, c.Exists(ctx, "deals:item:tenant:d1"))
}

func TestCacheDeleteByPrefix(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	companyA := uuid.New()
	companyB := uuid.New()
	key := NewKey("contacts", "list")

	c.Set(ctx, key.For(companyA, "p1"), cachedContact{ID: "a1"}, time.Minute)
	c.Set(ctx, key.For(companyA, "p2"), cachedContact{ID: "a2"}, time.Minute)
	c.Set(ctx, key.For(companyB, "p1"), cachedContact{ID: "b1"}, time.Minute)

	c.DeleteByPrefix(ctx, key.Prefix(companyA))

	assert.False(t, c.Exists(ctx, key.For(companyA, "p1")))
	assert.False(t, c.Exists(ctx, key.For(companyA, "p2")))
	assert.True(t, c.Exists(ctx, key.For(companyB, "p1")), "other tenants must be untouched")
}

func TestCacheFailSoftWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewCache(client, zap.NewNop())
	ctx := context.Background()

	mr.Close()

	// None of these should panic or surface an error to the caller
	c.Set(ctx, "contacts:item:tenant:c1", cachedContact{ID: "c1"}, time.Minute)
	var got cachedContact
	assert.False(t, c.Get(ctx, "contacts:item:tenant:c1", &got))
	c.Delete(ctx, "contacts:item:tenant:c1")
	c.DeleteByPrefix(ctx, "contacts:")
	assert.False(t, c.Exists(ctx, "contacts:item:tenant:c1"))
}

func TestKeyLayout(t *testing.T) {
	companyID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	key := NewKey("deals", "list")

	assert.Equal(t,
		"deals:list:11111111-2222-3333-4444-555555555555:2:stage=open",
		key.For(companyID, "2", "stage=open"))
	assert.Equal(t,
		"deals:list:11111111-2222-3333-4444-555555555555",
		key.Prefix(companyID))
}
