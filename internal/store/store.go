package store

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/xiangqi-manual-go/internal/codec"
	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// Store combines the repository with an optional cache.
type Store struct {
	repo  *MongoRepository
	cache *Cache
	log   *zap.SugaredLogger
}

// Open connects to MongoDB and, when configured, to Redis.
func Open(ctx context.Context, cfg *config.StoreConfig, log *zap.SugaredLogger) (*Store, error) {
	repo, err := ConnectMongo(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	s := &Store{repo: repo, log: log}
	if cfg.CacheEnabled() {
		if s.cache, err = ConnectRedis(ctx, cfg, log); err != nil {
			_ = repo.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

// Close releases both connections.
func (s *Store) Close(ctx context.Context) error {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.log.Warnw("closing cache", "error", err)
		}
	}
	return s.repo.Close(ctx)
}

// Repository returns the MongoDB repository.
func (s *Store) Repository() *MongoRepository {
	return s.repo
}

// Save stores m and returns its id.
func (s *Store) Save(ctx context.Context, m *manual.Manual, source string) (string, error) {
	return s.repo.Save(ctx, m, source)
}

// Text returns the stored manual rendered in format f.
func (s *Store) Text(ctx context.Context, id string, f codec.Format) ([]byte, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, id, f); err == nil && ok {
			return data, nil
		}
	}
	m, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		return s.cache.Render(ctx, id, m, f)
	}
	var buf bytes.Buffer
	if err := codec.Write(&buf, m, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Delete removes the manual and its cached renderings.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		return s.cache.Invalidate(ctx, id)
	}
	return nil
}

// withTimeout bounds ctx by d; zero means no bound.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
