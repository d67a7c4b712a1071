// xqmanual converts and inspects Chinese Chess game records in the XQF,
// BIN, JSON, ICCS, Chinese and CC formats.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lgbarn/xiangqi-manual-go/internal/codec"
	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/export"
	"github.com/lgbarn/xiangqi-manual-go/internal/hashing"
	"github.com/lgbarn/xiangqi-manual-go/internal/logging"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/matching"
	"github.com/lgbarn/xiangqi-manual-go/internal/output"
	"github.com/lgbarn/xiangqi-manual-go/internal/processing"
	"github.com/lgbarn/xiangqi-manual-go/internal/store"
	"github.com/lgbarn/xiangqi-manual-go/internal/worker"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	if err := loadArgsFromFileIfSpecified(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}
	if *version {
		fmt.Printf("xqmanual version %s\n", programVersion)
		os.Exit(0)
	}

	os.Exit(run(flag.Args(), os.Stdout, os.Stderr))
}

// run executes one invocation and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	cfg.SetOutput(stdout)
	cfg.LogFile = stderr

	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer closeLog()

	if *fetchID != "" {
		return fetchStored(*fetchID, cfg, log)
	}

	inputs, err := collectInputs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "Error: no input files")
		usage()
		return 2
	}

	switch {
	case *infoMode || *validateMode:
		return inspectAll(inputs, cfg, log)
	case *splitMode:
		return splitAll(inputs, cfg, log)
	case len(inputs) == 1 && *outputFile == "" && cfg.Output.Dir == "" &&
		!*useStore && cfg.Export.ParquetPath == "":
		return convertToWriter(inputs[0], cfg, log)
	default:
		return convertAll(inputs, cfg, log)
	}
}

// setupLogger builds the logger, writing to the -l file when given.
func setupLogger(cfg *config.Config) (*zap.SugaredLogger, func(), error) {
	if *logFile == "" {
		log, err := logging.New(cfg.Verbosity)
		if err != nil {
			return nil, nil, err
		}
		return log, func() { _ = log.Sync() }, nil
	}
	file, err := os.Create(*logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("creating log file %s: %w", *logFile, err)
	}
	log := logging.NewWriter(cfg.Verbosity, file)
	return log, func() {
		_ = log.Sync()
		file.Close() //nolint:errcheck,gosec // G104: cleanup on exit
	}, nil
}

// collectInputs joins the positional arguments with the -list file.
func collectInputs(args []string) ([]string, error) {
	inputs := append([]string(nil), args...)
	if *fileListFile == "" {
		return inputs, nil
	}
	list, err := loadFileList(*fileListFile)
	if err != nil {
		return nil, err
	}
	return append(inputs, list...), nil
}

// resolveFormat picks the output format: -f or the configured format, then
// the -o extension, then Chinese linear text.
func resolveFormat(cfg *config.Config) (codec.Format, error) {
	if cfg.Output.Format != "" {
		return codec.ParseFormat(cfg.Output.Format)
	}
	if *outputFile != "" {
		return codec.FormatFromPath(*outputFile)
	}
	return codec.FormatZh, nil
}

// writeOptions returns the codec options for writing.
func writeOptions(cfg *config.Config, log *zap.SugaredLogger) []codec.Option {
	return []codec.Option{codec.WithLogger(log), codec.WithOutputConfig(&cfg.Output)}
}

// convertToWriter converts a single input to the configured output stream.
func convertToWriter(path string, cfg *config.Config, log *zap.SugaredLogger) int {
	f, err := resolveFormat(cfg)
	if err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 2
	}
	filter, err := setupFilter()
	if err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 2
	}
	m, err := codec.ReadFile(path, codec.WithLogger(log))
	if err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 1
	}
	if filter != nil && !filter.Match(m) {
		log.Infow("filtered out", "file", path)
		return 0
	}
	if err := m.ChangeLayout(cfg.Output.LayoutChange()); err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 1
	}
	if err := codec.Write(cfg.OutputFile, m, f, writeOptions(cfg, log)...); err != nil {
		fmt.Fprintf(cfg.LogFile, "Error writing %s: %v\n", path, err)
		return 1
	}
	return 0
}

// fetchStored prints a manual saved with -store, rendered in the output
// format. Renderings are served from the Redis cache when one is configured.
func fetchStored(id string, cfg *config.Config, log *zap.SugaredLogger) int {
	if !cfg.Store.Enabled() {
		fmt.Fprintf(cfg.LogFile, "Error: -fetch needs store.mongo_uri: %v\n", errors.ErrInvalidConfig)
		return 2
	}
	f, err := resolveFormat(cfg)
	if err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 2
	}
	ctx := context.Background()
	s, err := store.Open(ctx, &cfg.Store, log)
	if err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := s.Close(ctx); err != nil {
			log.Warnw("closing store", "error", err)
		}
	}()

	data, err := s.Text(ctx, id, f)
	if err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 1
	}
	if _, err := cfg.OutputFile.Write(data); err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 1
	}
	return 0
}

// readManual reads path and applies the configured layout.
func readManual(path string, cfg *config.Config, log *zap.SugaredLogger) (*manual.Manual, error) {
	m, err := codec.ReadFile(path, codec.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := m.ChangeLayout(cfg.Output.LayoutChange()); err != nil {
		return nil, err
	}
	return m, nil
}

// newConverter assembles the conversion pipeline. The returned cleanup
// flushes the export and closes the store.
func newConverter(inputs []string, cfg *config.Config, log *zap.SugaredLogger) (*processing.Converter, func() error, error) {
	f, err := resolveFormat(cfg)
	if err != nil {
		return nil, nil, err
	}
	if *outputFile != "" && len(inputs) > 1 {
		return nil, nil, fmt.Errorf("-o names one file but %d inputs were given; use -outdir", len(inputs))
	}
	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return nil, nil, err
		}
	}

	conv := &processing.Converter{
		Format:         f,
		Output:         *outputFile,
		OutDir:         cfg.Output.Dir,
		Layout:         cfg.Output.LayoutChange(),
		OutputConf:     &cfg.Output,
		Timeout:        cfg.Store.Timeout,
		SkipDuplicates: *suppressDuplicates,
		Log:            log,
	}
	filter, err := setupFilter()
	if err != nil {
		return nil, nil, err
	}
	if filter != nil {
		conv.Filter = filter
	}
	if *suppressDuplicates {
		conv.Dups = hashing.NewThreadSafeDuplicateDetector(true, *duplicateCapacity)
	}

	var closers []func() error
	cleanup := func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	if cfg.Export.ParquetPath != "" {
		w, err := export.NewWriter(&cfg.Export)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "creating %s", cfg.Export.ParquetPath)
		}
		conv.Export = w
		closers = append(closers, w.Close)
	}

	if *useStore {
		if !cfg.Store.Enabled() {
			_ = cleanup()
			return nil, nil, fmt.Errorf("-store needs store.mongo_uri: %w", errors.ErrInvalidConfig)
		}
		s, err := store.Open(context.Background(), &cfg.Store, log)
		if err != nil {
			_ = cleanup()
			return nil, nil, err
		}
		conv.Saver = s
		closers = append(closers, func() error { return s.Close(context.Background()) })
	}
	return conv, cleanup, nil
}

// setupFilter builds the manual filter from the filtering flags. It
// returns nil when no criterion is given.
func setupFilter() (*matching.ManualFilter, error) {
	filter := matching.NewManualFilter()
	if *criteriaFile != "" {
		if err := filter.LoadCriteriaFile(*criteriaFile); err != nil {
			return nil, fmt.Errorf("loading criteria file %s: %w", *criteriaFile, err)
		}
	}
	if *playerFilter != "" {
		filter.AddPlayerFilter(*playerFilter)
	}
	if *redFilter != "" {
		filter.AddRedFilter(*redFilter)
	}
	if *blackFilter != "" {
		filter.AddBlackFilter(*blackFilter)
	}
	if *eventFilter != "" {
		filter.AddEventFilter(*eventFilter)
	}
	if *resultFilter != "" {
		filter.AddResultFilter(*resultFilter)
	}
	if *fenFilter != "" {
		if err := filter.AddFENFilter(*fenFilter); err != nil {
			return nil, fmt.Errorf("parsing FEN filter: %w", err)
		}
	}
	if *patternFilter != "" {
		filter.AddPatternFilter(*patternFilter, false)
	}
	filter.MinPlies = *minPly
	filter.MaxPlies = *maxPly

	if !filter.HasCriteria() {
		return nil, nil
	}
	return filter, nil
}

// convertAll converts every input through the worker pool.
func convertAll(inputs []string, cfg *config.Config, log *zap.SugaredLogger) int {
	conv, cleanup, err := newConverter(inputs, cfg, log)
	if err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 2
	}

	results := worker.Run(inputs, conv.Process, *failFast, worker.WithWorkers(cfg.Workers))
	failed, duplicates, skipped := reportResults(results, cfg, log)
	if conv.Dups != nil {
		unique, dups := conv.Dups.Counts()
		log.Debugw("duplicate table", "unique", unique, "duplicates", dups, "full", conv.Dups.IsFull())
	}

	if err := cleanup(); err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		failed++
	}
	if cfg.Verbosity > 0 {
		reportStatistics(cfg.LogFile, len(results)-failed-duplicates-skipped, failed, duplicates, skipped, len(inputs))
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// reportResults logs each result and counts failures, duplicates and
// filtered manuals.
func reportResults(results []worker.Result, cfg *config.Config, log *zap.SugaredLogger) (failed, duplicates, skipped int) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(cfg.LogFile, "Error: %s: %v\n", r.Job.Path, r.Err)
		case r.Skipped:
			skipped++
		case r.Duplicate:
			duplicates++
		default:
			log.Infow("converted", "input", r.Job.Path, "output", r.Output, "id", r.ManualID, "plies", r.Plies)
		}
	}
	return failed, duplicates, skipped
}

// inspectAll prints the summary of each input and, with -validate, the
// replay report.
func inspectAll(inputs []string, cfg *config.Config, log *zap.SugaredLogger) int {
	code := 0
	for _, path := range inputs {
		m, err := readManual(path, cfg, log)
		if err != nil {
			fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
			code = 1
			continue
		}
		if *infoMode {
			if err := output.WriteSummaryJSON(cfg.OutputFile, m); err != nil {
				fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
				return 1
			}
		}
		if *validateMode && !reportValidation(cfg.OutputFile, path, processing.ValidateManual(m)) {
			code = 1
		}
	}
	return code
}

// reportValidation prints one validation result and reports whether the
// manual replayed cleanly.
func reportValidation(w io.Writer, path string, result *processing.ValidationResult) bool {
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "%s: warning: %s\n", path, warning)
	}
	if !result.Valid {
		fmt.Fprintf(w, "%s: %s\n", path, result.ErrorMsg)
		return false
	}
	fmt.Fprintf(w, "%s: ok\n", path)
	return true
}

// splitAll writes every line of play of each input as its own file,
// named base_N in the output directory or next to the input.
func splitAll(inputs []string, cfg *config.Config, log *zap.SugaredLogger) int {
	f, err := resolveFormat(cfg)
	if err != nil {
		fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
		return 2
	}
	code := 0
	for _, path := range inputs {
		m, err := readManual(path, cfg, log)
		if err != nil {
			fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
			code = 1
			continue
		}
		lines, err := processing.SplitVariations(m)
		if err != nil {
			fmt.Fprintf(cfg.LogFile, "Error: %s: %v\n", path, err)
			code = 1
			continue
		}
		for i, line := range lines {
			out := splitOutputPath(path, cfg.Output.Dir, i+1, f)
			if err := codec.WriteFileFormat(out, line, f, writeOptions(cfg, log)...); err != nil {
				fmt.Fprintf(cfg.LogFile, "Error: %v\n", err)
				code = 1
				break
			}
		}
		log.Infow("split", "input", path, "lines", len(lines))
	}
	return code
}

// splitOutputPath returns the path of line n of input.
func splitOutputPath(input, dir string, n int, f codec.Format) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, f.Extension()))
}

// loadArgsFromFileIfSpecified replaces "-A file" in os.Args with the
// arguments read from the file.
func loadArgsFromFileIfSpecified() error {
	for i := 1; i < len(os.Args)-1; i++ {
		if os.Args[i] != "-A" && os.Args[i] != "--A" {
			continue
		}
		extra, err := loadArgsFile(os.Args[i+1])
		if err != nil {
			return err
		}
		args := append([]string{}, os.Args[:i]...)
		args = append(args, extra...)
		os.Args = append(args, os.Args[i+2:]...)
		return nil
	}
	return nil
}

// loadArgsFile reads arguments from a file, one or more per line. Blank
// lines and lines starting with # are skipped.
func loadArgsFile(path string) ([]string, error) {
	file, err := os.Open(path) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var args []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, splitArgsLine(line)...)
	}
	return args, scanner.Err()
}

// splitArgsLine splits a line on spaces and tabs, keeping single or
// double quoted runs together.
func splitArgsLine(line string) []string {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, current.String())
	}
	return args
}

// loadFileList reads input paths, one per line.
func loadFileList(path string) ([]string, error) {
	file, err := os.Open(path) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var paths []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	return paths, scanner.Err()
}

// reportStatistics prints the final counts.
func reportStatistics(w io.Writer, converted, failed, duplicates, skipped, total int) {
	fmt.Fprintf(w, "%d manual(s) converted, %d failed, %d duplicate(s), %d filtered out of %d.\n",
		converted, failed, duplicates, skipped, total)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: xqmanual [options] input-files...\n\n")
	fmt.Fprintf(os.Stderr, "Converts and inspects Chinese Chess game records.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nFormats (-f, or by extension):\n")
	fmt.Fprintf(os.Stderr, "  xqf       XQF binary (read all versions, write version 18)\n")
	fmt.Fprintf(os.Stderr, "  bin       Compact binary\n")
	fmt.Fprintf(os.Stderr, "  json      JSON tree\n")
	fmt.Fprintf(os.Stderr, "  pgn_iccs  Linear text with ICCS moves\n")
	fmt.Fprintf(os.Stderr, "  pgn_zh    Linear text with Chinese moves (default)\n")
	fmt.Fprintf(os.Stderr, "  pgn_cc    Grid text\n")
}
