package search

import (
	"context"
	"testing"
	"time"

	"filmgrid/searchservice/internal/domain"
)

func TestCacheKeyIsCaseAndSpaceInsensitive(t *testing.T) {
	if buildCacheKey("Batman") != buildCacheKey("  batman ") {
		t.Fatalf("expected identical keys")
	}
	if buildCacheKey("batman") == buildCacheKey("superman") {
		t.Fatalf("distinct queries must not collide")
	}
}

func TestCacheLookupExpiry(t *testing.T) {
	service := NewService(&fakeSource{enabled: true}, time.Second, WithCacheTTL(time.Minute))
	key := buildCacheKey("batman")
	now := time.Now()

	response := domain.SearchResponse{
		Query: "batman",
		Items: []domain.Movie{{ID: "tt0096895", Title: "Batman", Rating: "7.5", Year: "1989"}},
	}
	service.cacheStore(context.Background(), key, response, now)

	cached, ok := service.cacheLookup(context.Background(), key, now.Add(30*time.Second))
	if !ok {
		t.Fatalf("expected hit before expiry")
	}
	if len(cached.Items) != 1 || cached.Items[0].ID != "tt0096895" {
		t.Fatalf("unexpected cached payload: %#v", cached)
	}

	if _, ok := service.cacheLookup(context.Background(), key, now.Add(2*time.Minute)); ok {
		t.Fatalf("expected miss after expiry")
	}
}

func TestCacheReturnsClones(t *testing.T) {
	service := NewService(&fakeSource{enabled: true}, time.Second)
	key := buildCacheKey("batman")
	now := time.Now()

	service.cacheStore(context.Background(), key, domain.SearchResponse{
		Query: "batman",
		Items: []domain.Movie{{ID: "tt0096895", Title: "Batman"}},
	}, now)

	first, ok := service.cacheLookup(context.Background(), key, now)
	if !ok {
		t.Fatalf("expected hit")
	}
	first.Items[0].Title = "mutated"

	second, ok := service.cacheLookup(context.Background(), key, now)
	if !ok {
		t.Fatalf("expected hit")
	}
	if second.Items[0].Title != "Batman" {
		t.Fatalf("cache entry was mutated through a returned response")
	}
}

type fakeCacheBackend struct {
	resp      domain.SearchResponse
	remaining time.Duration
	found     bool
	sets      int
	lastTTL   time.Duration
}

func (f *fakeCacheBackend) Get(ctx context.Context, key string) (domain.SearchResponse, time.Duration, bool, error) {
	return f.resp, f.remaining, f.found, nil
}

func (f *fakeCacheBackend) Set(ctx context.Context, key string, response domain.SearchResponse, ttl time.Duration) error {
	f.sets++
	f.lastTTL = ttl
	return nil
}

func TestCacheSharedHitKeepsRemainingLifetime(t *testing.T) {
	backend := &fakeCacheBackend{
		resp:      domain.SearchResponse{Query: "batman", Items: []domain.Movie{{ID: "tt0096895", Title: "Batman"}}},
		remaining: 30 * time.Second,
		found:     true,
	}
	service := NewService(&fakeSource{enabled: true}, time.Second, WithCacheTTL(10*time.Minute), WithRedisCache(backend))
	key := buildCacheKey("batman")
	now := time.Now()

	if _, ok := service.cacheLookup(context.Background(), key, now); !ok {
		t.Fatalf("expected shared-tier hit")
	}

	// The memory mirror must expire when the shared entry would have,
	// not a full local TTL later.
	backend.found = false
	if _, ok := service.cacheLookup(context.Background(), key, now.Add(10*time.Second)); !ok {
		t.Fatalf("expected memory hit before the shared expiry")
	}
	if _, ok := service.cacheLookup(context.Background(), key, now.Add(time.Minute)); ok {
		t.Fatalf("memory mirror outlived the shared entry")
	}
}

func TestCacheSharedHitCapsMirrorAtLocalTTL(t *testing.T) {
	backend := &fakeCacheBackend{
		resp:      domain.SearchResponse{Query: "batman"},
		remaining: time.Hour,
		found:     true,
	}
	service := NewService(&fakeSource{enabled: true}, time.Second, WithCacheTTL(time.Minute), WithRedisCache(backend))
	key := buildCacheKey("batman")
	now := time.Now()

	if _, ok := service.cacheLookup(context.Background(), key, now); !ok {
		t.Fatalf("expected shared-tier hit")
	}

	backend.found = false
	if _, ok := service.cacheLookup(context.Background(), key, now.Add(2*time.Minute)); ok {
		t.Fatalf("memory mirror exceeded the local TTL")
	}
}

func TestCacheSharedHitWithUnknownLifetimeIsNotMirrored(t *testing.T) {
	backend := &fakeCacheBackend{
		resp:  domain.SearchResponse{Query: "batman"},
		found: true,
	}
	service := NewService(&fakeSource{enabled: true}, time.Second, WithRedisCache(backend))
	key := buildCacheKey("batman")
	now := time.Now()

	if _, ok := service.cacheLookup(context.Background(), key, now); !ok {
		t.Fatalf("expected shared-tier hit")
	}

	service.cacheMu.Lock()
	_, mirrored := service.cache[key]
	service.cacheMu.Unlock()
	if mirrored {
		t.Fatalf("entry without a known lifetime must not be mirrored")
	}
}

func TestCacheTrimEvictsOldestEntries(t *testing.T) {
	service := NewService(&fakeSource{enabled: true}, time.Second, WithCacheTTL(time.Hour))
	base := time.Now()

	for i := 0; i < cacheMaxEntries+10; i++ {
		key := buildCacheKey(time.Duration(i).String())
		service.cacheStore(context.Background(), key, domain.SearchResponse{Query: key}, base.Add(time.Duration(i)*time.Millisecond))
	}

	service.cacheMu.Lock()
	size := len(service.cache)
	_, oldestPresent := service.cache[buildCacheKey(time.Duration(0).String())]
	service.cacheMu.Unlock()

	if size > cacheMaxEntries {
		t.Fatalf("cache size = %d, want <= %d", size, cacheMaxEntries)
	}
	if oldestPresent {
		t.Fatalf("expected oldest entry to be evicted")
	}
}
