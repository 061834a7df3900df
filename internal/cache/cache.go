package cache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "cache:"

// Cacheable resources. Invalidation is scoped per resource per identity.
const (
	ResourceNotes = "notes"
	ResourceTodos = "todos"
)

// ResponseCache caches serialized JSON responses in Redis, keyed by resource,
// identity, route path and query string. Everything here is best-effort: a
// Redis failure degrades to uncached reads, never to a failed request.
type ResponseCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
	sf  singleflight.Group
}

// New returns a new ResponseCache.
func New(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *ResponseCache {
	return &ResponseCache{rdb: rdb, ttl: ttl, log: log}
}

// Key derives the deterministic cache key for a request. Identity is the
// authenticated user ID, or "" on unauthenticated routes (the segment is
// omitted consistently so keys never collide across identities).
func Key(resource, identity, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteString(resource)
	b.WriteByte(':')
	if identity != "" {
		b.WriteString("u")
		b.WriteString(identity)
		b.WriteByte(':')
	}
	b.WriteString(path)
	b.WriteString(":q:")
	b.WriteString(queryDigest(query))
	return b.String()
}

// queryDigest collapses the sorted query string into a short stable digest.
// Encode sorts by key, so parameter order on the wire does not matter.
func queryDigest(query url.Values) string {
	if len(query) == 0 {
		return "-"
	}
	sum := sha256.Sum256([]byte(query.Encode()))
	return base64.RawURLEncoding.EncodeToString(sum[:16])
}

// Get returns the cached body for key, or nil on miss.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set stores body under key with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) error {
	return c.rdb.Set(ctx, key, body, c.ttl).Err()
}

// Invalidate removes every cached entry for the given user and resource.
// Runs synchronously so a read issued after the caller's response cannot
// observe a value cached before the write. Failures are logged here so
// callers can treat invalidation as best-effort without losing the signal.
func (c *ResponseCache) Invalidate(ctx context.Context, userID int64, resource string) error {
	pattern := keyPrefix + resource + ":u" + strconv.FormatInt(userID, 10) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
			return err
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}
