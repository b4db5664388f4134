package myredis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "instance"

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	mr := miniredis.RunT(t)
	client, err := NewRedisUniversalClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newRecordCache(client redis.UniversalClient) *redisCache[domain.InstanceRecord] {
	return NewCache[domain.InstanceRecord](client, testPrefix, MarshalJSON[domain.InstanceRecord], UnmarshalJSON[domain.InstanceRecord])
}

func testRecord(id string) domain.InstanceRecord {
	now := helpers.TestNow()
	return domain.InstanceRecord{
		ServiceName:        "orders",
		InstanceID:         id,
		Endpoint:           domain.Endpoint{Host: "10.0.0.1", Port: 9000, Metadata: map[string]string{"zone": "a"}},
		Status:             domain.StatusUp,
		RegisteredStatus:   domain.StatusUp,
		LeaseDuration:      30 * time.Second,
		LeaseExpiryAt:      now.Add(30 * time.Second),
		RegisteredAt:       now,
		LastRenewedAt:      now,
		LastDirtyTimestamp: 7,
		OriginNode:         "n1",
	}
}

func TestCache_WriteValue(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	cache := newRecordCache(client)
	rec := testRecord("a")

	t.Run("success", func(t *testing.T) {
		err := cache.WriteValue(ctx, "orders/a", rec, 60000)
		require.NoError(t, err)
		assert.True(t, mr.Exists(testPrefix+":orders/a"))
		assert.Equal(t, time.Minute, mr.TTL(testPrefix+":orders/a"))

		items, err := cache.ListAllValues(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, rec, items[0])
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		require.NoError(t, cache.WriteValue(ctx, "orders/pinned", testRecord("pinned"), 0))
		assert.Zero(t, mr.TTL(testPrefix+":orders/pinned"))
	})

	t.Run("ttl expiry removes the value", func(t *testing.T) {
		require.NoError(t, cache.WriteValue(ctx, "orders/short", testRecord("short"), 1000))
		mr.FastForward(2 * time.Second)
		assert.False(t, mr.Exists(testPrefix+":orders/short"))
	})

	t.Run("when Redis write fails returns internal_server_error", func(t *testing.T) {
		closedClient, err := NewRedisUniversalClient("redis://" + mr.Addr())
		require.NoError(t, err)
		closedClient.Close()

		err = newRecordCache(closedClient).WriteValue(ctx, "x", rec, 60000)
		require.Error(t, err)
		assert.True(t, service.IsInternalServerError(err))
	})
}

func TestCache_DeleteValue(t *testing.T) {
	ctx := context.Background()
	_, client := setupTestRedis(t)
	cache := newRecordCache(client)

	require.NoError(t, cache.WriteValue(ctx, "orders/a", testRecord("a"), 60000))
	require.NoError(t, cache.DeleteValue(ctx, "orders/a"))
	require.NoError(t, cache.DeleteValue(ctx, "orders/absent"))

	items, err := cache.ListAllValues(ctx)
	require.Error(t, err)
	assert.True(t, service.IsEntityNotFoundError(err))
	assert.Nil(t, items)
}

func TestCache_ListAllValues(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	cache := newRecordCache(client)

	t.Run("empty cache returns entity not found", func(t *testing.T) {
		items, err := cache.ListAllValues(ctx)
		require.Error(t, err)
		assert.True(t, service.IsEntityNotFoundError(err))
		assert.Nil(t, items)
	})

	t.Run("returns all values across scan pages", func(t *testing.T) {
		for i := 0; i < scanBatch+20; i++ {
			id := fmt.Sprintf("i-%04d", i)
			require.NoError(t, cache.WriteValue(ctx, "orders/"+id, testRecord(id), 60000))
		}
		require.NoError(t, mr.Set("other:key", "ignored"))

		items, err := cache.ListAllValues(ctx)
		require.NoError(t, err)
		assert.Len(t, items, scanBatch+20)
	})

	t.Run("invalid JSON is skipped", func(t *testing.T) {
		mr.FlushAll()
		require.NoError(t, mr.Set(testPrefix+":badjson", "invalid json"))

		items, err := cache.ListAllValues(ctx)
		require.Error(t, err)
		assert.True(t, service.IsEntityNotFoundError(err))
		assert.Nil(t, items)

		require.NoError(t, cache.WriteValue(ctx, "orders/a", testRecord("a"), 60000))
		items, err = cache.ListAllValues(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}
