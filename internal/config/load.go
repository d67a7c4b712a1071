package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
)

// EnvPrefix prefixes environment overrides, e.g. XQMANUAL_STORE_MONGO_URI.
const EnvPrefix = "XQMANUAL"

// Load reads the configuration file at path (any format viper knows) on
// top of the defaults, then applies environment overrides. An empty path
// reads only the environment.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "decoding config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides reach
// Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("verbosity", cfg.Verbosity)
	v.SetDefault("workers", cfg.Workers)

	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.max_line_length", cfg.Output.MaxLineLength)
	v.SetDefault("output.layout", cfg.Output.Layout)
	v.SetDefault("output.keep_remarks", cfg.Output.KeepRemarks)
	v.SetDefault("output.keep_variations", cfg.Output.KeepVariations)

	v.SetDefault("store.mongo_uri", cfg.Store.MongoURI)
	v.SetDefault("store.database", cfg.Store.Database)
	v.SetDefault("store.collection", cfg.Store.Collection)
	v.SetDefault("store.redis_addr", cfg.Store.RedisAddr)
	v.SetDefault("store.redis_password", cfg.Store.RedisPassword)
	v.SetDefault("store.redis_db", cfg.Store.RedisDB)
	v.SetDefault("store.cache_ttl", cfg.Store.CacheTTL)
	v.SetDefault("store.timeout", cfg.Store.Timeout)

	v.SetDefault("export.parquet_path", cfg.Export.ParquetPath)
	v.SetDefault("export.compression", cfg.Export.Compression)
	v.SetDefault("export.parallel", cfg.Export.Parallel)
}
