package config

import "io"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithOutputFormat sets the output format by extension name.
func (b *ConfigBuilder) WithOutputFormat(format string) *ConfigBuilder {
	b.cfg.Output.Format = format
	return b
}

// WithOutputDir sets the batch output directory.
func (b *ConfigBuilder) WithOutputDir(dir string) *ConfigBuilder {
	b.cfg.Output.Dir = dir
	return b
}

// WithMaxLineLength sets the maximum line length.
func (b *ConfigBuilder) WithMaxLineLength(length uint) *ConfigBuilder {
	b.cfg.Output.MaxLineLength = length
	return b
}

// WithLayout sets the layout transform applied before writing.
func (b *ConfigBuilder) WithLayout(layout string) *ConfigBuilder {
	b.cfg.Output.Layout = layout
	return b
}

// WithWorkers sets the number of batch workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Workers = n
	return b
}

// WithMongo sets the MongoDB connection.
func (b *ConfigBuilder) WithMongo(uri, database string) *ConfigBuilder {
	b.cfg.Store.MongoURI = uri
	if database != "" {
		b.cfg.Store.Database = database
	}
	return b
}

// WithRedis sets the Redis cache connection.
func (b *ConfigBuilder) WithRedis(addr string) *ConfigBuilder {
	b.cfg.Store.RedisAddr = addr
	return b
}

// WithParquetExport sets the Parquet export file.
func (b *ConfigBuilder) WithParquetExport(path string) *ConfigBuilder {
	b.cfg.Export.ParquetPath = path
	return b
}

// WithOutput sets the output writer.
func (b *ConfigBuilder) WithOutput(w io.Writer) *ConfigBuilder {
	b.cfg.OutputFile = w
	return b
}

// WithVerbosity sets the verbosity level.
func (b *ConfigBuilder) WithVerbosity(level int) *ConfigBuilder {
	b.cfg.Verbosity = level
	return b
}

// KeepRemarks controls whether remarks are kept.
func (b *ConfigBuilder) KeepRemarks(keep bool) *ConfigBuilder {
	b.cfg.Output.KeepRemarks = keep
	return b
}

// KeepVariations controls whether variations are kept.
func (b *ConfigBuilder) KeepVariations(keep bool) *ConfigBuilder {
	b.cfg.Output.KeepVariations = keep
	return b
}
