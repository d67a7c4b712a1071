// Package config provides configuration for the xqmanual tools.
package config

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
)

// Config holds all program configuration.
type Config struct {
	Verbosity int `mapstructure:"verbosity"` // 0=nothing, 1=info, 2=debug
	Workers   int `mapstructure:"workers"`   // batch conversion workers

	Output OutputConfig `mapstructure:"output"`
	Store  StoreConfig  `mapstructure:"store"`
	Export ExportConfig `mapstructure:"export"`

	// Output streams
	OutputFile io.Writer `mapstructure:"-"`
	LogFile    io.Writer `mapstructure:"-"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Verbosity:  1,
		Workers:    runtime.NumCPU(),
		Output:     *NewOutputConfig(),
		Store:      *NewStoreConfig(),
		Export:     *NewExportConfig(),
		OutputFile: os.Stdout,
		LogFile:    os.Stderr,
	}
}

// SetOutput sets the output stream.
func (c *Config) SetOutput(w io.Writer) {
	c.OutputFile = w
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	if c.Verbosity < 0 || c.Verbosity > 2 {
		return fmt.Errorf("verbosity %d: %w", c.Verbosity, errors.ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers %d: %w", c.Workers, errors.ErrInvalidConfig)
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Export.Validate()
}
