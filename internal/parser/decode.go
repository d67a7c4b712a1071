package parser

import (
	"unicode/utf8"

	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// Notation identifies how moves are written in linear text.
type Notation int

const (
	NotationICCS Notation = iota
	NotationZh
)

// String returns the string representation of a notation.
func (n Notation) String() string {
	if n == NotationZh {
		return "zh"
	}
	return "iccs"
}

// isCol returns true if c is a column letter in either case.
func isCol(c byte) bool {
	return (c >= 'a' && c < 'a'+xiangqi.Cols) || (c >= 'A' && c < 'A'+xiangqi.Cols)
}

// isRank returns true if c is a row digit.
func isRank(c byte) bool {
	return c >= '0' && c <= '9'
}

// isICCS reports whether text has the shape "h2e2" or "h2-e2".
func isICCS(text string) bool {
	if len(text) == 5 && text[2] == '-' {
		text = text[:2] + text[3:]
	}
	return len(text) == 4 && isCol(text[0]) && isRank(text[1]) && isCol(text[2]) && isRank(text[3])
}

// isZh reports whether text has the shape of a four-character Chinese
// move: the third character is a direction word.
func isZh(text string) bool {
	if utf8.RuneCountInString(text) != 4 {
		return false
	}
	runes := []rune(text)
	return xiangqi.IsMoveChar(runes[2])
}

// DecodeMove reports the notation a move word is written in.
func DecodeMove(text string) (Notation, bool) {
	switch {
	case isICCS(text):
		return NotationICCS, true
	case isZh(text):
		return NotationZh, true
	default:
		return 0, false
	}
}
