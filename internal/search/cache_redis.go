package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"filmgrid/searchservice/internal/domain"
)

const redisCachePrefix = "filmgrid:search:"

// CacheBackend is the shared cache tier behind the in-process one.
type CacheBackend interface {
	Get(ctx context.Context, key string) (response domain.SearchResponse, remaining time.Duration, found bool, err error)
	Set(ctx context.Context, key string, response domain.SearchResponse, ttl time.Duration) error
}

// RedisCacheBackend mirrors search responses in Redis so restarted
// instances share warm entries. Expiry is owned by Redis TTLs.
type RedisCacheBackend struct {
	client *redis.Client
}

func NewRedisCacheBackend(client *redis.Client) *RedisCacheBackend {
	return &RedisCacheBackend{client: client}
}

// Get returns the cached response along with the TTL still left on the
// key, so the in-process tier can expire with the shared entry instead
// of granting itself a fresh lifetime. Payloads that no longer decode
// are deleted on sight.
func (r *RedisCacheBackend) Get(ctx context.Context, key string) (domain.SearchResponse, time.Duration, bool, error) {
	fullKey := redisCachePrefix + key
	data, err := r.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.SearchResponse{}, 0, false, nil
		}
		return domain.SearchResponse{}, 0, false, err
	}
	var resp domain.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		_ = r.Delete(ctx, key)
		return domain.SearchResponse{}, 0, false, err
	}
	remaining, err := r.client.TTL(ctx, fullKey).Result()
	if err != nil || remaining < 0 {
		// TTL is negative for keys without an expiry; treat the
		// remaining lifetime as unknown.
		remaining = 0
	}
	return resp, remaining, true, nil
}

func (r *RedisCacheBackend) Set(ctx context.Context, key string, response domain.SearchResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisCachePrefix+key, data, ttl).Err()
}

func (r *RedisCacheBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisCachePrefix+key).Err()
}

func (r *RedisCacheBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
