// Package errors holds the sentinel errors shared by the manual packages
// and two context-carrying wrappers, MoveError and ParseError. Both unwrap
// to their cause, so callers test with errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidMove is a move the board rules reject.
	ErrInvalidMove = errors.New("invalid move")

	// ErrMalformedFile is a bad signature, checksum, header or grammar.
	ErrMalformedFile = errors.New("malformed file")

	// ErrUnsupportedVersion is a legacy file newer than the reader knows.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrOutOfRange is a coordinate outside the board.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrInvalidFEN is a malformed piece-placement string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrNotationMismatch is a move whose Chinese text does not decode
	// back to the same coordinates.
	ErrNotationMismatch = errors.New("notation mismatch")

	// ErrUnknownFormat is a file extension or format name no codec handles.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrNotFound is a record missing from a store.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedLayout is a layout transform the board cannot apply.
	ErrUnsupportedLayout = errors.New("unsupported layout transform")

	// ErrInvalidConfig is a bad configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MoveError is a failure tied to one move of a manual.
type MoveError struct {
	Err      error
	PlyNum   int    // 0 when unknown
	MoveText string // rowcols, ICCS or Chinese text of the move
	File     string
}

func (e *MoveError) Error() string {
	return withCause(joinNonEmpty(", ",
		e.File,
		ifSet(e.PlyNum > 0, fmt.Sprintf("ply %d", e.PlyNum)),
		ifSet(e.MoveText != "", fmt.Sprintf("move %q", e.MoveText)),
	), e.Err, "move error")
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// ParseError locates a failure in an input file. Text readers set Line and
// Column (1-based, columns in runes); binary readers set Offset instead.
type ParseError struct {
	Err      error
	File     string
	Line     int
	Column   int
	Offset   int
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	var what string
	switch {
	case e.Expected != "" && e.Got != "":
		what = fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
	case e.Expected != "":
		what = "expected " + e.Expected
	case e.Got != "":
		what = "unexpected " + e.Got
	}
	return withCause(joinNonEmpty(": ", e.location(), what), e.Err, "parse error")
}

// location renders "file:line:col", "line N" or "file@offset".
func (e *ParseError) location() string {
	var sb strings.Builder
	sb.WriteString(e.File)
	switch {
	case e.Line > 0:
		if e.File == "" {
			sb.WriteString("line ")
		} else {
			sb.WriteByte(':')
		}
		fmt.Fprintf(&sb, "%d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&sb, ":%d", e.Column)
		}
	case e.Offset > 0:
		fmt.Fprintf(&sb, "@%#x", e.Offset)
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func ifSet(ok bool, s string) string {
	if ok {
		return s
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// withCause appends the cause to context. fallback is used when both are
// empty.
func withCause(context string, cause error, fallback string) string {
	switch {
	case cause == nil && context == "":
		return fallback
	case cause == nil:
		return context
	case context == "":
		return cause.Error()
	}
	return context + ": " + cause.Error()
}

// Wrap prefixes err with context, keeping it visible to errors.Is and
// errors.As. A nil err stays nil.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf is Wrap with a formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
