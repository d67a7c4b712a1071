package config

import (
	"fmt"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// OutputConfig holds settings related to output formatting.
type OutputConfig struct {
	// Format names the output format by extension ("pgn_zh", "xqf", ...).
	// Empty means use the extension of the output file.
	Format string `mapstructure:"format"`

	// Dir is the output directory for batch conversion
	Dir string `mapstructure:"dir"`

	// MaxLineLength is the maximum line length for linear text output
	MaxLineLength uint `mapstructure:"max_line_length"`

	// Layout is a transform applied before writing ("mirror", "rotate",
	// "exchange"); empty leaves the board as read
	Layout string `mapstructure:"layout"`

	// KeepRemarks controls whether remarks are kept in linear text
	KeepRemarks bool `mapstructure:"keep_remarks"`

	// KeepVariations controls whether variations are kept in linear text
	KeepVariations bool `mapstructure:"keep_variations"`
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		MaxLineLength:  80,
		KeepRemarks:    true,
		KeepVariations: true,
	}
}

// Validate checks that the output configuration is valid.
func (o *OutputConfig) Validate() error {
	if o.MaxLineLength > 0 && o.MaxLineLength < 20 {
		return fmt.Errorf("max line length %d: %w", o.MaxLineLength, errors.ErrInvalidConfig)
	}
	if o.Layout != "" {
		if _, err := xiangqi.ParseChangeType(o.Layout); err != nil {
			return fmt.Errorf("layout %q: %w", o.Layout, errors.ErrInvalidConfig)
		}
	}
	return nil
}

// LayoutChange returns the configured layout transform.
func (o *OutputConfig) LayoutChange() xiangqi.ChangeType {
	if o.Layout == "" {
		return xiangqi.NoChange
	}
	ct, err := xiangqi.ParseChangeType(o.Layout)
	if err != nil {
		return xiangqi.NoChange
	}
	return ct
}
