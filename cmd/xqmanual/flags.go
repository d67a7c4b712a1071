// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"

	"github.com/lgbarn/xiangqi-manual-go/internal/config"
)

var (
	// Output options
	outputFile   = flag.String("o", "", "Output file (default: stdout for a single input)")
	outputFormat = flag.String("f", "", "Output format: xqf, bin, json, pgn_iccs, pgn_zh, pgn_cc (default: from -o extension)")
	outputDir    = flag.String("outdir", "", "Output directory for batch conversion")
	lineLength   = flag.Int("w", 0, "Maximum line length for linear text (0 = config default)")
	layout       = flag.String("layout", "", "Layout transform before writing: mirror, rotate, exchange")

	// Content options
	noRemarks    = flag.Bool("C", false, "Don't output remarks in linear text")
	noVariations = flag.Bool("V", false, "Don't output variations in linear text")

	// Inspection
	infoMode     = flag.Bool("info", false, "Print info, statistics and final position as JSON instead of converting")
	validateMode = flag.Bool("validate", false, "Replay every move and report problems")
	splitMode    = flag.Bool("split", false, "Write each line of play as a separate manual")

	// Filtering options
	criteriaFile  = flag.String("t", "", "Criteria file for filtering (info criteria, FEN, FENPattern)")
	playerFilter  = flag.String("p", "", "Filter by player name (either side)")
	redFilter     = flag.String("Tr", "", "Filter by red player")
	blackFilter   = flag.String("Tb", "", "Filter by black player")
	eventFilter   = flag.String("Te", "", "Filter by event")
	resultFilter  = flag.String("Tres", "", "Filter by result (红胜, 黑胜, 和棋, 未知)")
	fenFilter     = flag.String("Tf", "", "Filter by a position reached in any line")
	patternFilter = flag.String("Tp", "", "Filter by a FEN pattern (? ! * + - _ wildcards)")
	minPly        = flag.Int("minply", 0, "Minimum main line plies")
	maxPly        = flag.Int("maxply", 0, "Maximum main line plies (0 = no limit)")

	// Duplicate detection
	suppressDuplicates = flag.Bool("D", false, "Skip manuals whose main line was already seen")
	duplicateCapacity  = flag.Int("duplicate-capacity", 0, "Maximum duplicate table entries (0 = unlimited)")

	// Export and storage
	parquetPath = flag.String("parquet", "", "Export move rows to this Parquet file")
	useStore    = flag.Bool("store", false, "Save manuals to the configured MongoDB store")
	fetchID     = flag.String("fetch", "", "Print the stored manual with this id instead of reading files")

	// Configuration and logging
	configFile = flag.String("config", "", "Configuration file (yaml, toml, json)")
	verbosity  = flag.Int("v", -1, "Verbosity: 0 quiet, 1 info, 2 debug (default: config)")
	logFile    = flag.String("l", "", "Write diagnostics to log file")

	// Performance options
	workers  = flag.Int("j", 0, "Number of batch workers (0 = config default)")
	failFast = flag.Bool("failfast", false, "Stop submitting files after the first failure")

	// File input options
	fileListFile = flag.String("list", "", "File containing input paths (one per line)")
	// Note: -A is handled before flag.Parse() in loadArgsFromFileIfSpecified
	_ = flag.String("A", "", "File containing command-line arguments (one per line, # for comments)")

	// Other options
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")
)

// applyFlags applies command-line flags to the configuration.
func applyFlags(cfg *config.Config) {
	applyOutputFlags(cfg)
	applyContentFlags(cfg)
	applyRuntimeFlags(cfg)
}

// applyOutputFlags configures output format, directory and layout.
func applyOutputFlags(cfg *config.Config) {
	if *outputFormat != "" {
		cfg.Output.Format = *outputFormat
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *layout != "" {
		cfg.Output.Layout = *layout
	}
	if *lineLength > 0 {
		cfg.Output.MaxLineLength = uint(*lineLength)
	}
	if *parquetPath != "" {
		cfg.Export.ParquetPath = *parquetPath
	}
}

// applyContentFlags configures linear text content.
func applyContentFlags(cfg *config.Config) {
	if *noRemarks {
		cfg.Output.KeepRemarks = false
	}
	if *noVariations {
		cfg.Output.KeepVariations = false
	}
}

// applyRuntimeFlags configures verbosity and workers.
func applyRuntimeFlags(cfg *config.Config) {
	if *verbosity >= 0 {
		cfg.Verbosity = *verbosity
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
}
