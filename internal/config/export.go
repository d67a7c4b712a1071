package config

import (
	"fmt"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
)

// ExportConfig holds settings for the Parquet export.
type ExportConfig struct {
	// ParquetPath is the export file; empty disables the export
	ParquetPath string `mapstructure:"parquet_path"`

	// Compression is one of "snappy", "gzip" or "none"
	Compression string `mapstructure:"compression"`

	// Parallel is the number of goroutines the Parquet writer uses
	Parallel int64 `mapstructure:"parallel"`
}

// NewExportConfig creates an ExportConfig with default values.
func NewExportConfig() *ExportConfig {
	return &ExportConfig{
		Compression: "snappy",
		Parallel:    4,
	}
}

// Validate checks that the export configuration is valid.
func (e *ExportConfig) Validate() error {
	switch e.Compression {
	case "snappy", "gzip", "none":
	default:
		return fmt.Errorf("compression %q: %w", e.Compression, errors.ErrInvalidConfig)
	}
	if e.Parallel < 1 {
		return fmt.Errorf("parallel %d: %w", e.Parallel, errors.ErrInvalidConfig)
	}
	return nil
}
