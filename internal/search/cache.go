package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"filmgrid/searchservice/internal/domain"
	"filmgrid/searchservice/internal/metrics"
)

const (
	defaultCacheTTL = 10 * time.Minute
	cacheMaxEntries = 256
)

type cachedResponse struct {
	response  domain.SearchResponse
	updatedAt time.Time
	expiresAt time.Time
}

func buildCacheKey(query string) string {
	return "q=" + strings.ToLower(strings.TrimSpace(query))
}

func (s *Service) cacheLookup(ctx context.Context, key string, now time.Time) (domain.SearchResponse, bool) {
	// Redis first, so restarted instances share warm entries.
	if s.redisCache != nil {
		resp, remaining, found, err := s.redisCache.Get(ctx, key)
		if err == nil && found {
			metrics.CacheHitsTotal.Inc()
			// The memory mirror expires when the shared entry would
			// have; a hit never extends an entry's lifetime.
			if remaining > s.cacheTTL {
				remaining = s.cacheTTL
			}
			s.cacheStoreMemoryOnly(key, resp, now, remaining)
			return resp, true
		}
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	entry, ok := s.cache[key]
	if !ok {
		metrics.CacheMissesTotal.Inc()
		return domain.SearchResponse{}, false
	}
	if now.After(entry.expiresAt) {
		metrics.CacheMissesTotal.Inc()
		delete(s.cache, key)
		return domain.SearchResponse{}, false
	}
	metrics.CacheHitsTotal.Inc()
	return cloneSearchResponse(entry.response), true
}

func (s *Service) cacheStore(ctx context.Context, key string, response domain.SearchResponse, now time.Time) {
	if s.redisCache != nil {
		_ = s.redisCache.Set(ctx, key, response, s.cacheTTL)
	}
	s.cacheStoreMemoryOnly(key, response, now, s.cacheTTL)
}

func (s *Service) cacheStoreMemoryOnly(key string, response domain.SearchResponse, now time.Time, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache[key] = &cachedResponse{
		response:  cloneSearchResponse(response),
		updatedAt: now,
		expiresAt: now.Add(ttl),
	}
	s.trimCacheLocked(now)
}

func (s *Service) trimCacheLocked(now time.Time) {
	for key, entry := range s.cache {
		if now.After(entry.expiresAt) {
			delete(s.cache, key)
		}
	}
	if len(s.cache) <= cacheMaxEntries {
		return
	}

	// Evict oldest entries first.
	type pair struct {
		key   string
		entry *cachedResponse
	}
	items := make([]pair, 0, len(s.cache))
	for key, entry := range s.cache {
		items = append(items, pair{key: key, entry: entry})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].entry.updatedAt.Before(items[j].entry.updatedAt)
	})
	for i := 0; i < len(items)-cacheMaxEntries; i++ {
		delete(s.cache, items[i].key)
	}
}

func cloneSearchResponse(response domain.SearchResponse) domain.SearchResponse {
	cloned := response
	if response.Items != nil {
		cloned.Items = append([]domain.Movie(nil), response.Items...)
	}
	return cloned
}
