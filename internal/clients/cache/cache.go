package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

// Cache is a redis-backed read-through cache for collaborator responses.
// NewFromEnv returns (nil, nil) when REDIS_ADDR is not set; a nil *Cache is
// safe to use and behaves as a permanent miss.
type Cache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewFromEnv(log *logger.Logger, ttl time.Duration) (*Cache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{
		log: log.With("client", "CollaboratorCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Key builds a stable cache key from a namespace and any JSON-encodable
// request payload.
func Key(namespace string, payload any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return namespace + ":" + hex.EncodeToString(sum[:16])
}

func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c == nil || c.rdb == nil || key == "" {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Debug("cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Debug("cache entry undecodable, ignoring", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, val any) {
	if c == nil || c.rdb == nil || key == "" {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Debug("cache set failed", "key", key, "error", err)
	}
}
