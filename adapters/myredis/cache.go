package myredis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 500

type redisCache[T any] struct {
	client    redis.UniversalClient
	prefix    string
	marshal   func(T) ([]byte, error)
	unmarshal func([]byte) (T, error)
	zero      T
}

var _ interfaces.Cache[int] = (*redisCache[int])(nil)

// NewCache creates redis implementation of generic cache interface. Keys are stored as
// "<prefix>:<key>".
func NewCache[T any](client redis.UniversalClient, prefix string, marshal func(T) ([]byte, error), unmarshal func([]byte) (T, error)) *redisCache[T] {
	var zero T
	return &redisCache[T]{
		client:    client,
		prefix:    prefix,
		zero:      zero,
		marshal:   marshal,
		unmarshal: unmarshal,
	}
}

// MarshalJSON and UnmarshalJSON are the default codec for NewCache.
func MarshalJSON[T any](v T) ([]byte, error) { return json.Marshal(v) }

func UnmarshalJSON[T any](b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}

func (r *redisCache[T]) WriteValue(ctx context.Context, key string, item T, ttlMs int) error {
	bytes, err := r.marshal(item)
	if err != nil {
		return service.NewInternalServerError("Redis marshal item error", fmt.Errorf("can't marshal item of type %T, err: %w", item, err))
	}

	err = r.client.Set(ctx, r.generateKey(key), bytes, time.Duration(ttlMs)*time.Millisecond).Err()
	if err != nil {
		return service.NewInternalServerError("Redis write key error", fmt.Errorf("can't write item of type %T to redis (key='%s'), err: %w", item, key, err))
	}

	return nil
}

func (r *redisCache[T]) DeleteValue(ctx context.Context, key string) error {
	err := r.client.Del(ctx, r.generateKey(key)).Err()
	if err != nil {
		return service.NewInternalServerError("Redis delete key error", fmt.Errorf("can't delete item of type %T from redis (key='%s'), err: %w", r.zero, key, err))
	}
	return nil
}

// ListAllValues scans the keys under the cache prefix and fetches their values in batches.
// Keys that expire between the scan and the fetch, and values that no longer unmarshal,
// are skipped. SCAN may report a key twice; it is fetched once.
func (r *redisCache[T]) ListAllValues(ctx context.Context) ([]T, error) {
	var items []T
	var cursor uint64
	seen := make(map[string]struct{})
	for {
		found, next, err := r.client.Scan(ctx, cursor, r.prefix+":*", scanBatch).Result()
		if err != nil {
			return nil, service.NewInternalServerError("Redis scan keys error", fmt.Errorf("redis scan error, err: %w", err))
		}
		keys := found[:0]
		for _, k := range found {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			values, err := r.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, service.NewInternalServerError("Redis get values error", fmt.Errorf("redis mget error, err: %w", err))
			}
			items = append(items, r.decode(values)...)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(items) == 0 {
		return nil, service.NewEntityNotFoundError("Entity not found", nil)
	}
	return items, nil
}

func (r *redisCache[T]) decode(values []interface{}) []T {
	items := make([]T, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		item, err := r.unmarshal([]byte(s))
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (r *redisCache[T]) generateKey(key string) string {
	return r.prefix + ":" + key
}
