// Package codec reads and writes manuals in every supported file format,
// selected by file extension.
package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// Format identifies a file format.
type Format int

const (
	FormatXQF Format = iota
	FormatBIN
	FormatJSON
	FormatICCS
	FormatZh
	FormatCC
	numFormats
)

var formatExtensions = [numFormats]string{
	FormatXQF:  ".xqf",
	FormatBIN:  ".bin",
	FormatJSON: ".json",
	FormatICCS: ".pgn_iccs",
	FormatZh:   ".pgn_zh",
	FormatCC:   ".pgn_cc",
}

// Formats lists every format in a fixed order.
func Formats() []Format {
	out := make([]Format, numFormats)
	for i := range out {
		out[i] = Format(i)
	}
	return out
}

// Extension returns the file extension of the format, with the dot.
func (f Format) Extension() string {
	if f >= 0 && f < numFormats {
		return formatExtensions[f]
	}
	return ""
}

// String returns the extension without the dot.
func (f Format) String() string {
	if ext := f.Extension(); ext != "" {
		return ext[1:]
	}
	return "unknown"
}

// IsText reports whether the format is one of the text grammars.
func (f Format) IsText() bool {
	return f == FormatICCS || f == FormatZh || f == FormatCC
}

// ParseFormat accepts a format name with or without the leading dot.
func ParseFormat(name string) (Format, error) {
	ext := strings.ToLower(name)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for f, e := range formatExtensions {
		if e == ext {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("format %q: %w", name, errors.ErrUnknownFormat)
}

// FormatFromPath returns the format named by the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%s has no extension: %w", path, errors.ErrUnknownFormat)
	}
	return ParseFormat(ext)
}

type options struct {
	file   string
	log    *zap.SugaredLogger
	output *config.OutputConfig
}

// Option configures a read or write.
type Option func(*options)

// WithFile names the input in error messages.
func WithFile(name string) Option {
	return func(o *options) { o.file = name }
}

// WithLogger sets the logger for codec tracing and for the manuals read.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithOutputConfig sets the text output settings.
func WithOutputConfig(cfg *config.OutputConfig) Option {
	return func(o *options) {
		if cfg != nil {
			o.output = cfg
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop().Sugar(), output: config.NewOutputConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type codec struct {
	read  func(data []byte, o options) (*manual.Manual, error)
	write func(w io.Writer, m *manual.Manual, o options) error
}

var codecs = [numFormats]codec{
	FormatXQF:  {read: readXQF, write: writeXQF},
	FormatBIN:  {read: readBIN, write: writeBIN},
	FormatJSON: {read: readJSON, write: writeJSON},
	FormatICCS: {read: readICCS, write: writeICCS},
	FormatZh:   {read: readZh, write: writeZh},
	FormatCC:   {read: readCC, write: writeCC},
}

// Read reads a whole manual in format f. A manual is returned only when
// the input was read completely.
func Read(r io.Reader, f Format, opts ...Option) (*manual.Manual, error) {
	if f < 0 || f >= numFormats {
		return nil, fmt.Errorf("format %d: %w", f, errors.ErrUnknownFormat)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	o := newOptions(opts)
	m, err := codecs[f].read(data, o)
	if err != nil {
		return nil, err
	}
	m.BackToRoot()
	o.log.Debugw("manual read", "file", o.file, "format", f.String(), "moves", len(m.Moves()))
	return m, nil
}

// Write writes m in format f. The manual's cursor is unchanged.
func Write(w io.Writer, m *manual.Manual, f Format, opts ...Option) error {
	if f < 0 || f >= numFormats {
		return fmt.Errorf("format %d: %w", f, errors.ErrUnknownFormat)
	}
	return codecs[f].write(w, m, newOptions(opts))
}

// ReadFile reads the manual at path, choosing the format by extension.
func ReadFile(path string, opts ...Option) (*manual.Manual, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, f, append([]Option{WithFile(path)}, opts...)...)
}

// WriteFile writes m to path, choosing the format by extension.
func WriteFile(path string, m *manual.Manual, opts ...Option) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return WriteFileFormat(path, m, f, opts...)
}

// WriteFileFormat writes m to path in format f. The file is written to a
// buffer first so a failed write leaves no partial file.
func WriteFileFormat(path string, m *manual.Manual, f Format, opts ...Option) error {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := Write(bw, m, f, opts...); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
