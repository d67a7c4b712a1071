package store

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lgbarn/xiangqi-manual-go/internal/codec"
	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

const cachePrefix = "xqmanual"

// Cache keeps manuals rendered in each format, keyed by manual id.
type Cache struct {
	client *redis.Client
	cfg    *config.StoreConfig
	log    *zap.SugaredLogger
}

// ConnectRedis connects to cfg.RedisAddr and checks the server with a ping.
func ConnectRedis(ctx context.Context, cfg *config.StoreConfig, log *zap.SugaredLogger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctxPing, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	log.Infow("connected to Redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return &Cache{client: client, cfg: cfg, log: log}, nil
}

// Close closes the connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

func cacheKey(id string, f codec.Format) string {
	return cachePrefix + ":" + id + ":" + f.String()
}

// Get returns the cached rendering. The bool is false on a miss.
func (c *Cache) Get(ctx context.Context, id string, f codec.Format) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(id, f)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Put stores a rendering for the configured TTL.
func (c *Cache) Put(ctx context.Context, id string, f codec.Format, data []byte) error {
	return c.client.Set(ctx, cacheKey(id, f), data, c.cfg.CacheTTL).Err()
}

// Invalidate drops every rendering of id.
func (c *Cache) Invalidate(ctx context.Context, id string) error {
	keys := make([]string, 0, len(codec.Formats()))
	for _, f := range codec.Formats() {
		keys = append(keys, cacheKey(id, f))
	}
	return c.client.Del(ctx, keys...).Err()
}

// Render returns m in format f, from the cache when present.
func (c *Cache) Render(ctx context.Context, id string, m *manual.Manual, f codec.Format) ([]byte, error) {
	if data, ok, err := c.Get(ctx, id, f); err != nil {
		c.log.Warnw("cache read failed", "id", id, "format", f.String(), "error", err)
	} else if ok {
		return data, nil
	}

	var buf bytes.Buffer
	if err := codec.Write(&buf, m, f); err != nil {
		return nil, err
	}
	if err := c.Put(ctx, id, f, buf.Bytes()); err != nil {
		c.log.Warnw("cache write failed", "id", id, "format", f.String(), "error", err)
	}
	return buf.Bytes(), nil
}
