package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"

	"github.com/letieu/ideadb/internal/database"
)

// ListingCache stores rendered listing pages per collection. Invalidate drops
// every cached page of one collection at once.
type ListingCache interface {
	Get(ctx context.Context, kind database.Kind, key string, dst any) (bool, error)
	Set(ctx context.Context, kind database.Kind, key string, value any) error
	Invalidate(ctx context.Context, kind database.Kind) error
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Redis 7 does not know the maint_notifications handshake.
	opts.MaintNotificationsConfig = &maintnotifications.Config{
		Mode: maintnotifications.ModeDisabled,
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// ListingKey identifies one listing request.
func ListingKey(q database.ListQuery) string {
	v := url.Values{}
	v.Set("q", q.Search)
	v.Set("category", q.Category)
	v.Set("sort", string(q.Sort))
	v.Set("page", strconv.Itoa(q.Page))
	return v.Encode()
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache keys listings by a per-collection version counter, so
// invalidation is a single INCR and stale pages simply expire.
func NewRedisCache(client *redis.Client, ttl time.Duration) ListingCache {
	return &redisCache{client: client, prefix: "ideadb:listing", ttl: ttl}
}

func (r *redisCache) versionKey(kind database.Kind) string {
	return fmt.Sprintf("%s:%s:version", r.prefix, kind)
}

func (r *redisCache) pageKey(ctx context.Context, kind database.Kind, key string) (string, error) {
	version, err := r.client.Get(ctx, r.versionKey(kind)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%s:v%d:%s", r.prefix, kind, version, key), nil
}

func (r *redisCache) Get(ctx context.Context, kind database.Kind, key string, dst any) (bool, error) {
	k, err := r.pageKey(ctx, kind, key)
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", kind, err)
	}

	data, err := r.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", kind, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", kind, err)
	}
	return true, nil
}

func (r *redisCache) Set(ctx context.Context, kind database.Kind, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", kind, err)
	}

	k, err := r.pageKey(ctx, kind, key)
	if err != nil {
		return fmt.Errorf("cache set %s: %w", kind, err)
	}
	return r.client.Set(ctx, k, data, r.ttl).Err()
}

func (r *redisCache) Invalidate(ctx context.Context, kind database.Kind) error {
	if err := r.client.Incr(ctx, r.versionKey(kind)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", kind, err)
	}
	return nil
}

// Noop never stores anything. It is used when no Redis URL is configured.
type Noop struct{}

func (Noop) Get(context.Context, database.Kind, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, database.Kind, string, any) error { return nil }

func (Noop) Invalidate(context.Context, database.Kind) error { return nil }
