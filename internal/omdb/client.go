package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"filmgrid/searchservice/internal/domain"
)

const (
	defaultBaseURL   = "https://www.omdbapi.com/"
	defaultUserAgent = "filmgrid-search/1.0"
	redisCacheKey    = "filmgrid:omdb:"

	maxResponseBytes = 512 * 1024
)

type Config struct {
	APIKey    string
	BaseURL   string
	UserAgent string
	Client    *http.Client
	Redis     *redis.Client
	CacheTTL  time.Duration
}

// Client talks to the OMDB HTTP API. All requests carry the configured
// API key; the key is read once at startup and never changes.
type Client struct {
	apiKey    string
	baseURL   string
	userAgent string
	http      *http.Client
	redis     *redis.Client
	cacheTTL  time.Duration
}

type searchEnvelope struct {
	Response     string                `json:"Response"`
	Error        string                `json:"Error"`
	Search       []domain.MovieSummary `json:"Search"`
	TotalResults string                `json:"totalResults"`
}

type detailEnvelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	domain.MovieDetail
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Client{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      httpClient,
		redis:     cfg.Redis,
		cacheTTL:  cacheTTL,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// SearchTitles runs the discovery call: a title search filtered to
// movies. A Response:"False" payload maps to domain.UpstreamError with
// the upstream message passed through.
func (c *Client) SearchTitles(ctx context.Context, title string) ([]domain.MovieSummary, int, error) {
	if !c.Enabled() {
		return nil, 0, domain.ErrNotConfigured
	}

	query := strings.TrimSpace(title)
	cacheKey := "s:" + strings.ToLower(query)
	if c.redis != nil {
		data, err := c.redis.Get(ctx, redisCacheKey+cacheKey).Bytes()
		if err == nil {
			var cached searchEnvelope
			if json.Unmarshal(data, &cached) == nil {
				return cached.Search, atoi(cached.TotalResults), nil
			}
		}
	}

	params := url.Values{
		"apikey": {c.apiKey},
		"s":      {query},
		"type":   {"movie"},
	}
	var envelope searchEnvelope
	if err := c.get(ctx, params, &envelope); err != nil {
		return nil, 0, err
	}
	if !strings.EqualFold(envelope.Response, "True") {
		return nil, 0, &domain.UpstreamError{Message: strings.TrimSpace(envelope.Error)}
	}

	if c.redis != nil {
		if data, err := json.Marshal(envelope); err == nil {
			_ = c.redis.Set(ctx, redisCacheKey+cacheKey, data, c.cacheTTL).Err()
		}
	}
	return envelope.Search, atoi(envelope.TotalResults), nil
}

// GetByID runs the detail call for one IMDb identifier.
func (c *Client) GetByID(ctx context.Context, imdbID string) (domain.MovieDetail, error) {
	if !c.Enabled() {
		return domain.MovieDetail{}, domain.ErrNotConfigured
	}

	id := strings.TrimSpace(imdbID)
	cacheKey := "i:" + strings.ToLower(id)
	if c.redis != nil {
		data, err := c.redis.Get(ctx, redisCacheKey+cacheKey).Bytes()
		if err == nil {
			var cached domain.MovieDetail
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	params := url.Values{
		"apikey": {c.apiKey},
		"i":      {id},
	}
	var envelope detailEnvelope
	if err := c.get(ctx, params, &envelope); err != nil {
		return domain.MovieDetail{}, err
	}
	if !strings.EqualFold(envelope.Response, "True") {
		return domain.MovieDetail{}, &domain.UpstreamError{Message: strings.TrimSpace(envelope.Error)}
	}

	if c.redis != nil {
		if data, err := json.Marshal(envelope.MovieDetail); err == nil {
			_ = c.redis.Set(ctx, redisCacheKey+cacheKey, data, c.cacheTTL).Err()
		}
	}
	return envelope.MovieDetail, nil
}

func (c *Client) get(ctx context.Context, params url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("omdb HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("unexpected omdb payload: %w", err)
	}
	return nil
}

func atoi(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}
