package config

import (
	"fmt"
	"time"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
)

// StoreConfig holds the MongoDB and Redis connection settings.
type StoreConfig struct {
	MongoURI   string `mapstructure:"mongo_uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`

	// Timeout bounds each store operation
	Timeout time.Duration `mapstructure:"timeout"`
}

// NewStoreConfig creates a StoreConfig with default values. No servers
// are configured by default.
func NewStoreConfig() *StoreConfig {
	return &StoreConfig{
		Database:   "xiangqi",
		Collection: "manuals",
		CacheTTL:   time.Hour,
		Timeout:    10 * time.Second,
	}
}

// Enabled reports whether a MongoDB server is configured.
func (s *StoreConfig) Enabled() bool {
	return s.MongoURI != ""
}

// CacheEnabled reports whether a Redis server is configured.
func (s *StoreConfig) CacheEnabled() bool {
	return s.RedisAddr != ""
}

// Validate checks that the store configuration is valid.
func (s *StoreConfig) Validate() error {
	if s.Enabled() && (s.Database == "" || s.Collection == "") {
		return fmt.Errorf("store database and collection required: %w", errors.ErrInvalidConfig)
	}
	if s.CacheTTL < 0 || s.Timeout < 0 {
		return fmt.Errorf("negative store duration: %w", errors.ErrInvalidConfig)
	}
	return nil
}
