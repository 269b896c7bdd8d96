package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"filmgrid/searchservice/internal/domain"
	"filmgrid/searchservice/internal/metrics"
)

// maxResults caps the enrichment fan-out. Every result costs one detail
// request against the keyed upstream, so the cap bounds the per-search
// request volume.
const maxResults = 10

// maxConcurrentDetailFetches limits how many detail requests run at once.
const maxConcurrentDetailFetches = 10

// MovieSource is the upstream the orchestrator searches against.
// Satisfied by *omdb.Client.
type MovieSource interface {
	Enabled() bool
	SearchTitles(ctx context.Context, title string) ([]domain.MovieSummary, int, error)
	GetByID(ctx context.Context, imdbID string) (domain.MovieDetail, error)
}

type Service struct {
	source        MovieSource
	timeout       time.Duration
	cacheDisabled bool
	cacheTTL      time.Duration
	cacheMu       sync.Mutex
	cache         map[string]*cachedResponse
	redisCache    CacheBackend
}

type ServiceOption func(*Service)

func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithCacheDisabled(disabled bool) ServiceOption {
	return func(s *Service) {
		s.cacheDisabled = disabled
	}
}

func WithRedisCache(backend CacheBackend) ServiceOption {
	return func(s *Service) {
		s.redisCache = backend
	}
}

func NewService(source MovieSource, timeout time.Duration, opts ...ServiceOption) *Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	svc := &Service{
		source:   source,
		timeout:  timeout,
		cacheTTL: defaultCacheTTL,
		cache:    make(map[string]*cachedResponse),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Search runs the full pipeline for one title query: discovery, capped
// parallel enrichment, normalization. The result sequence preserves the
// discovery order regardless of detail completion order. Enrichment is
// an all-or-nothing join: one failed detail request fails the search.
func (s *Service) Search(ctx context.Context, query string) (domain.SearchResponse, error) {
	normalized := strings.TrimSpace(query)
	if normalized == "" {
		return domain.SearchResponse{}, domain.ErrInvalidQuery
	}
	if s.source == nil || !s.source.Enabled() {
		return domain.SearchResponse{}, domain.ErrNotConfigured
	}

	startedAt := time.Now()

	var cacheKey string
	if !s.cacheDisabled {
		cacheKey = buildCacheKey(normalized)
		if cached, ok := s.cacheLookup(ctx, cacheKey, startedAt); ok {
			cached.ElapsedMS = time.Since(startedAt).Milliseconds()
			return cached, nil
		}
	}

	runCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	discoveryStartedAt := time.Now()
	summaries, total, err := s.source.SearchTitles(runCtx, normalized)
	recordUpstreamResult("search", err, time.Since(discoveryStartedAt))
	if err != nil {
		return domain.SearchResponse{}, err
	}

	taken := summaries
	if len(taken) > maxResults {
		taken = taken[:maxResults]
	}

	items, err := s.fetchDetails(runCtx, taken)
	if err != nil {
		// Detail failures surface as a generic fetch failure, never as
		// an upstream-reported outcome.
		return domain.SearchResponse{}, fmt.Errorf("fetch movie details: %v", err)
	}

	response := domain.SearchResponse{
		Query:        normalized,
		Items:        items,
		TotalMatches: total,
		ElapsedMS:    time.Since(startedAt).Milliseconds(),
	}
	if !s.cacheDisabled {
		s.cacheStore(ctx, cacheKey, response, time.Now())
	}
	return response, nil
}

// fetchDetails launches one detail request per summary and reassembles
// the results by original index, not by completion order.
func (s *Service) fetchDetails(ctx context.Context, summaries []domain.MovieSummary) ([]domain.Movie, error) {
	items := make([]domain.Movie, len(summaries))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentDetailFetches)
	for index, summary := range summaries {
		group.Go(func() error {
			startedAt := time.Now()
			detail, err := s.source.GetByID(groupCtx, summary.ImdbID)
			recordUpstreamResult("detail", err, time.Since(startedAt))
			if err != nil {
				return err
			}
			items[index] = domain.Normalize(detail)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func recordUpstreamResult(call string, err error, latency time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(call, status).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(call).Observe(latency.Seconds())
}
