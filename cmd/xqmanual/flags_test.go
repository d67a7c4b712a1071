package main

import (
	"testing"

	"github.com/lgbarn/xiangqi-manual-go/internal/config"
)

// saveRestoreBool sets a bool flag and returns a func restoring it.
// Usage: defer saveRestoreBool(noRemarks, true)()
func saveRestoreBool(ptr *bool, val bool) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

func saveRestoreInt(ptr *int, val int) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

func saveRestoreString(ptr *string, val string) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

// ---------------------------------------------------------------------------
// applyOutputFlags
// ---------------------------------------------------------------------------

func TestApplyOutputFlags(t *testing.T) {
	t.Run("flags override config", func(t *testing.T) {
		defer saveRestoreString(outputFormat, "pgn_cc")()
		defer saveRestoreString(outputDir, "out")()
		defer saveRestoreString(layout, "rotate")()
		defer saveRestoreInt(lineLength, 60)()
		defer saveRestoreString(parquetPath, "moves.parquet")()

		cfg := config.NewConfig()
		applyOutputFlags(cfg)

		if cfg.Output.Format != "pgn_cc" {
			t.Errorf("Format = %q; want pgn_cc", cfg.Output.Format)
		}
		if cfg.Output.Dir != "out" {
			t.Errorf("Dir = %q; want out", cfg.Output.Dir)
		}
		if cfg.Output.Layout != "rotate" {
			t.Errorf("Layout = %q; want rotate", cfg.Output.Layout)
		}
		if cfg.Output.MaxLineLength != 60 {
			t.Errorf("MaxLineLength = %d; want 60", cfg.Output.MaxLineLength)
		}
		if cfg.Export.ParquetPath != "moves.parquet" {
			t.Errorf("ParquetPath = %q; want moves.parquet", cfg.Export.ParquetPath)
		}
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		defer saveRestoreString(outputFormat, "")()
		defer saveRestoreString(outputDir, "")()
		defer saveRestoreString(layout, "")()
		defer saveRestoreInt(lineLength, 0)()
		defer saveRestoreString(parquetPath, "")()

		cfg := config.NewConfigBuilder().WithOutputFormat("json").WithMaxLineLength(100).Build()
		applyOutputFlags(cfg)

		if cfg.Output.Format != "json" {
			t.Errorf("Format = %q; want json", cfg.Output.Format)
		}
		if cfg.Output.MaxLineLength != 100 {
			t.Errorf("MaxLineLength = %d; want 100", cfg.Output.MaxLineLength)
		}
	})
}

// ---------------------------------------------------------------------------
// applyContentFlags
// ---------------------------------------------------------------------------

func TestApplyContentFlags(t *testing.T) {
	tests := []struct {
		name           string
		noRemarks      bool
		noVariations   bool
		wantRemarks    bool
		wantVariations bool
	}{
		{"defaults keep everything", false, false, true, true},
		{"drop remarks", true, false, false, true},
		{"drop variations", false, true, true, false},
		{"drop both", true, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer saveRestoreBool(noRemarks, tt.noRemarks)()
			defer saveRestoreBool(noVariations, tt.noVariations)()

			cfg := config.NewConfig()
			applyContentFlags(cfg)

			if cfg.Output.KeepRemarks != tt.wantRemarks {
				t.Errorf("KeepRemarks = %v; want %v", cfg.Output.KeepRemarks, tt.wantRemarks)
			}
			if cfg.Output.KeepVariations != tt.wantVariations {
				t.Errorf("KeepVariations = %v; want %v", cfg.Output.KeepVariations, tt.wantVariations)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// applyRuntimeFlags
// ---------------------------------------------------------------------------

func TestApplyRuntimeFlags(t *testing.T) {
	t.Run("negative verbosity keeps config", func(t *testing.T) {
		defer saveRestoreInt(verbosity, -1)()
		defer saveRestoreInt(workers, 0)()

		cfg := config.NewConfig()
		want := cfg.Workers
		applyRuntimeFlags(cfg)

		if cfg.Verbosity != 1 {
			t.Errorf("Verbosity = %d; want 1", cfg.Verbosity)
		}
		if cfg.Workers != want {
			t.Errorf("Workers = %d; want %d", cfg.Workers, want)
		}
	})

	t.Run("explicit values", func(t *testing.T) {
		defer saveRestoreInt(verbosity, 0)()
		defer saveRestoreInt(workers, 3)()

		cfg := config.NewConfig()
		applyRuntimeFlags(cfg)

		if cfg.Verbosity != 0 {
			t.Errorf("Verbosity = %d; want 0", cfg.Verbosity)
		}
		if cfg.Workers != 3 {
			t.Errorf("Workers = %d; want 3", cfg.Workers)
		}
	})
}

func TestApplyFlags(t *testing.T) {
	defer saveRestoreString(outputFormat, "bin")()
	defer saveRestoreBool(noVariations, true)()
	defer saveRestoreInt(verbosity, 2)()

	cfg := config.NewConfig()
	applyFlags(cfg)

	if cfg.Output.Format != "bin" || cfg.Output.KeepVariations || cfg.Verbosity != 2 {
		t.Errorf("applyFlags did not apply every group: %+v, verbosity %d", cfg.Output, cfg.Verbosity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
