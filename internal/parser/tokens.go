// Package parser reads the text forms of a manual: the info header, the two
// linear move grammars (ICCS and Chinese) and the CC grid.
package parser

// TokenKind identifies what a Token holds.
type TokenKind int

const (
	TokEOF TokenKind = iota
	// TokInfoKey is the key of a `[KEY "value"]` header line, uppercased.
	TokInfoKey
	// TokInfoValue is the quoted value of a header line, unescaped.
	TokInfoValue
	// TokRemark is the text between `{` and `}`.
	TokRemark
	// TokBout is a bout number such as "3." or "3...".
	TokBout
	TokOpenVariation
	TokCloseVariation
	// TokMove is a move word in either notation.
	TokMove
	TokResult
	TokError
)

var tokenKindNames = [...]string{
	TokEOF:            "end of input",
	TokInfoKey:        "info key",
	TokInfoValue:      "info value",
	TokRemark:         "remark",
	TokBout:           "bout number",
	TokOpenVariation:  "'('",
	TokCloseVariation: "')'",
	TokMove:           "move",
	TokResult:         "result",
	TokError:          "error",
}

// String returns a readable name for error messages.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown token"
}

// Token is one lexical item with its position. Line and Column are 1-based;
// Column counts runes.
type Token struct {
	Kind TokenKind
	// Text is the key, value, remark, move, result or error message.
	Text string
	// Bout is the number of a TokBout token.
	Bout   uint
	Line   uint
	Column uint
}
