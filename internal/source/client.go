package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sales-dashboard/internal/cache"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const maxBodyBytes = 64 << 20

// StatusError is returned when the products API answers with a non-2xx code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("products api returned %d: %s", e.StatusCode, e.Body)
}

// Client fetches raw sale records from the products API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.LRU[[]map[string]any]
	logger     *slog.Logger
}

func NewClient(cfg config.SourceConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache.NewLRU[[]map[string]any](cfg.CacheSize, cfg.CacheTTL),
		logger:     logger,
	}
}

// Fetch returns the records for q, served from cache when fresh. The region
// is sent lowercased and an unset year is sent empty.
func (c *Client) Fetch(ctx context.Context, q services.Query) ([]map[string]any, error) {
	key := cacheKey(q)
	if records, ok := c.cache.Get(key); ok {
		c.logger.Debug("products cache hit", "query", key, "records", len(records))
		return records, nil
	}

	ctx, span := observability.StartSpan(ctx, "source.fetch")
	defer span.Finish()
	span.SetTag("query", key)

	start := time.Now()
	records, err := c.fetch(ctx, q)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	c.cache.Set(key, records)
	c.logger.Info("products fetched",
		"query", key,
		"records", len(records),
		"duration", time.Since(start),
		"request_id", observability.GetRequestID(ctx),
	)
	return records, nil
}

// Invalidate forgets every cached response.
func (c *Client) Invalidate() {
	c.cache.Purge()
}

func (c *Client) fetch(ctx context.Context, q services.Query) ([]map[string]any, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	u.RawQuery = queryValues(q).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(snippet)}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return records, nil
}

func queryValues(q services.Query) url.Values {
	year := ""
	if q.Year != 0 {
		year = strconv.Itoa(q.Year)
	}
	return url.Values{
		"regiao": {strings.ToLower(services.NormalizeRegion(q.Region))},
		"ano":    {year},
	}
}

func cacheKey(q services.Query) string {
	return queryValues(q).Encode()
}
