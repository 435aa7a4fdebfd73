package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Fetcher = (*Cache)(nil)

// Cache wraps a Fetcher with a Redis page cache. Only 200 responses are stored.
type Cache struct {
	client *redis.Client
	next   Fetcher
	ttl    time.Duration
}

type cachedPage struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

func NewCache(ctx context.Context, addr string, next Fetcher, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr)

	return &Cache{
		client: client,
		next:   next,
		ttl:    ttl,
	}, nil
}

func (c *Cache) Fetch(ctx context.Context, url string) (*Response, error) {
	key := c.GeneratePageKey(url)

	if page, ok := c.get(ctx, key); ok {
		slog.Debug("Page cache hit", "url", url)
		return &Response{StatusCode: 200, Body: page.Body, ContentType: page.ContentType}, nil
	}

	res, err := c.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == 200 {
		c.set(ctx, key, cachedPage{Body: res.Body, ContentType: res.ContentType})
	}

	return res, nil
}

// GeneratePageKey derives the cache key for a page address.
func (c *Cache) GeneratePageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("page:%x", hash)
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) get(ctx context.Context, key string) (cachedPage, bool) {
	var page cachedPage

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return page, false
	}
	if err != nil {
		slog.Warn("Failed to read page cache", "key", key, "error", err)
		return page, false
	}

	if err := json.Unmarshal(data, &page); err != nil {
		slog.Warn("Failed to decode cached page", "key", key, "error", err)
		return page, false
	}
	return page, true
}

func (c *Cache) set(ctx context.Context, key string, page cachedPage) {
	data, err := json.Marshal(page)
	if err != nil {
		slog.Warn("Failed to encode page for cache", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("Failed to write page cache", "key", key, "error", err)
	}
}
