// Package output writes manuals in the text forms: the tag header, the
// two linear move grammars and the CC grid.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/parser"
)

// OutputWriter handles formatted output with line length control. Lengths
// are counted in runes.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
	err           error
}

// NewOutputWriter creates a new output writer. A maxLineLength of zero
// never breaks lines.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

func (o *OutputWriter) emit(s string) {
	if o.err != nil {
		return
	}
	_, o.err = io.WriteString(o.w, s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		o.lineLength = utf8.RuneCountInString(s[i+1:])
		return
	}
	o.lineLength += utf8.RuneCountInString(s)
}

// Write writes a string, adding a space separator if needed.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		n := utf8.RuneCountInString(s)
		if o.maxLineLength > 0 && o.lineLength+1+n > o.maxLineLength {
			o.emit("\n")
		} else {
			o.emit(" ")
		}
	}
	o.emit(s)
	o.needsSpace = true
}

// WriteNoSpace writes without adding a leading space.
func (o *OutputWriter) WriteNoSpace(s string) {
	o.emit(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	o.emit("\n")
	o.needsSpace = false
}

// Err returns the first write error.
func (o *OutputWriter) Err() error {
	return o.err
}

// tagValueEscaper escapes the characters that end a tag value or its line.
var tagValueEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"\n", "\\n",
	"\r", "\\r",
)

func escapeTagValue(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r") {
		return s
	}
	return tagValueEscaper.Replace(s)
}

// escapeRemark escapes the characters that end or escape a remark.
func escapeRemark(s string) string {
	if !strings.ContainsAny(s, "\\}") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "}", "\\}")
	return s
}

// WriteHeader writes the info map as [KEY "value"] lines, well-known keys
// first.
func WriteHeader(w io.Writer, m *manual.Manual) error {
	for _, key := range m.SortedInfoKeys() {
		value := m.Info(key)
		if value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "[%s \"%s\"]\n", key, escapeTagValue(value)); err != nil {
			return err
		}
	}
	return nil
}

// WriteLinear writes the header, the root remark and the move list in the
// given notation. A nil cfg uses the defaults.
func WriteLinear(w io.Writer, m *manual.Manual, notation parser.Notation, cfg *config.OutputConfig) error {
	if cfg == nil {
		cfg = config.NewOutputConfig()
	}
	if err := WriteHeader(w, m); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	ow := NewOutputWriter(w, int(cfg.MaxLineLength))
	if remark := m.RootRemark(); remark != "" && cfg.KeepRemarks {
		ow.Write("{" + escapeRemark(remark) + "}")
		ow.NewLine()
	}
	outputMoves(m, notation, cfg, ow)
	ow.NewLine()
	return ow.Err()
}

// outputMoves writes the move list. A bout number goes before every red
// ply and before a black ply that starts a line or follows a remark or a
// variation.
func outputMoves(m *manual.Manual, notation parser.Notation, cfg *config.OutputConfig, ow *OutputWriter) {
	needNumber := true
	firstInGroup := false
	write := func(s string) {
		if firstInGroup {
			ow.WriteNoSpace(s)
			firstInGroup = false
			return
		}
		ow.Write(s)
	}

	skip := 0
	for _, step := range m.LinearSteps() {
		if !cfg.KeepVariations {
			switch {
			case step.Kind == manual.StepOpen:
				skip++
				continue
			case step.Kind == manual.StepClose:
				skip--
				continue
			case skip > 0:
				continue
			}
		}

		switch step.Kind {
		case manual.StepOpen:
			ow.Write("(")
			firstInGroup = true
			needNumber = true
		case manual.StepClose:
			ow.WriteNoSpace(")")
			needNumber = true
		default:
			mv := step.Move
			ply := mv.NextNo()
			if ply%2 == 1 {
				write(fmt.Sprintf("%d.", (ply+1)/2))
			} else if needNumber {
				write(fmt.Sprintf("%d...", ply/2))
			}
			needNumber = false
			write(moveText(mv, notation))
			if remark := mv.Remark(); remark != "" && cfg.KeepRemarks {
				ow.Write("{" + escapeRemark(remark) + "}")
				needNumber = true
			}
		}
	}
}

// moveText formats a move in the given notation.
func moveText(mv *manual.Move, notation parser.Notation) string {
	if notation == parser.NotationZh {
		return mv.Zh()
	}
	return mv.ICCS()
}
