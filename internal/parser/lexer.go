package parser

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// charClass is the lexical class of a single rune.
type charClass uint8

const (
	classWord charClass = iota
	classSpace
	classInvalid
	classOpenInfo
	classCloseInfo
	classQuote
	classOpenRemark
	classCloseRemark
	classOpenVariation
	classCloseVariation
)

// asciiClass classifies ASCII runes. Anything else is a word rune unless
// unicode calls it a space, so full-width spaces separate Chinese moves.
var asciiClass = func() (t [128]charClass) {
	for i := 0; i < ' '; i++ {
		t[i] = classInvalid
	}
	t[0x7f] = classInvalid
	for _, c := range " \t\r\n\f\v" {
		t[c] = classSpace
	}
	t['['] = classOpenInfo
	t[']'] = classCloseInfo
	t['"'] = classQuote
	t['{'] = classOpenRemark
	t['}'] = classCloseRemark
	t['('] = classOpenVariation
	t[')'] = classCloseVariation
	return t
}()

func classOf(r rune) charClass {
	if r >= 0 && r < 0x80 {
		return asciiClass[r]
	}
	if unicode.IsSpace(r) {
		return classSpace
	}
	return classWord
}

// Lexer splits UTF-8 manual text into tokens. Legacy encodings are
// converted by the caller.
type Lexer struct {
	src    *bufio.Reader
	line   []rune
	col    int
	lineNo uint
	depth  uint
	done   bool
}

// NewLexer creates a lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{src: bufio.NewReader(r)}
}

// LineNumber returns the number of the line being scanned.
func (l *Lexer) LineNumber() uint {
	return l.lineNo
}

// nextLine loads the next input line, dropping a leading byte order mark.
func (l *Lexer) nextLine() bool {
	if l.done {
		return false
	}
	text, err := l.src.ReadString('\n')
	if err != nil && text == "" {
		l.done = true
		return false
	}
	if l.lineNo == 0 {
		text = strings.TrimPrefix(text, "\ufeff")
	}
	l.line, l.col = []rune(text), 0
	l.lineNo++
	return true
}

func (l *Lexer) atEOL() bool {
	return l.col >= len(l.line)
}

func (l *Lexer) peek() rune {
	return l.line[l.col]
}

func (l *Lexer) skipSpace() {
	for !l.atEOL() && classOf(l.peek()) == classSpace {
		l.col++
	}
}

// skipFiller skips white space and the closing brackets of header lines,
// which carry nothing.
func (l *Lexer) skipFiller() {
	for !l.atEOL() {
		if c := classOf(l.peek()); c != classSpace && c != classCloseInfo {
			return
		}
		l.col++
	}
}

// NextToken returns the next token. After the input is exhausted it keeps
// returning TokEOF.
func (l *Lexer) NextToken() *Token {
	for {
		l.skipFiller()
		if !l.atEOL() {
			break
		}
		if !l.nextLine() {
			return &Token{Kind: TokEOF, Line: l.lineNo}
		}
	}

	start := l.col
	tok := l.scan()
	if tok.Line == 0 {
		tok.Line, tok.Column = l.lineNo, uint(start)+1
	}
	return tok
}

// scan reads one token starting at the current rune.
func (l *Lexer) scan() *Token {
	r := l.peek()
	l.col++

	switch classOf(r) {
	case classOpenInfo:
		return l.scanInfoKey()
	case classQuote:
		return l.scanQuoted()
	case classOpenRemark:
		return l.scanRemark()
	case classCloseRemark:
		return &Token{Kind: TokError, Text: "'}' without '{'"}
	case classOpenVariation:
		l.depth++
		return &Token{Kind: TokOpenVariation}
	case classCloseVariation:
		if l.depth == 0 {
			return &Token{Kind: TokError, Text: "')' without '('"}
		}
		l.depth--
		return &Token{Kind: TokCloseVariation}
	case classWord:
		return l.scanWord(l.col - 1)
	default:
		return &Token{Kind: TokError, Text: "unexpected character " + strconv.QuoteRune(r)}
	}
}

// scanInfoKey reads the key after '['.
func (l *Lexer) scanInfoKey() *Token {
	l.skipSpace()
	start := l.col
	for !l.atEOL() {
		r := l.peek()
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.col++
	}
	if l.col == start {
		return &Token{Kind: TokError, Text: "'[' without an info key"}
	}
	return &Token{Kind: TokInfoKey, Text: strings.ToUpper(string(l.line[start:l.col]))}
}

// scanQuoted reads a double-quoted value, which must end on its line.
func (l *Lexer) scanQuoted() *Token {
	text, closed := l.collect('"')
	if !closed {
		return &Token{Kind: TokError, Text: "unterminated info value"}
	}
	return &Token{Kind: TokInfoValue, Text: text}
}

// scanRemark reads a remark, which may run over several lines.
func (l *Lexer) scanRemark() *Token {
	line, col := l.lineNo, uint(l.col)
	var sb strings.Builder
	for {
		text, closed := l.collect('}')
		sb.WriteString(text)
		if closed {
			return &Token{Kind: TokRemark, Text: sb.String(), Line: line, Column: col}
		}
		if !l.nextLine() {
			return &Token{Kind: TokError, Text: "unterminated remark", Line: line, Column: col}
		}
	}
}

// collect gathers runes up to the closing rune on the current line. A
// backslash escapes the rune after it. Inside info values "\n" and "\r"
// stand for line breaks.
func (l *Lexer) collect(closing rune) (string, bool) {
	var sb strings.Builder
	for !l.atEOL() {
		r := l.peek()
		l.col++
		switch {
		case r == '\\' && !l.atEOL():
			next := l.peek()
			l.col++
			if closing == '"' {
				switch next {
				case 'n':
					next = '\n'
				case 'r':
					next = '\r'
				}
			}
			sb.WriteRune(next)
		case r == closing:
			return sb.String(), true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String(), false
}

// scanWord reads a run of word runes. A bout number prefix ("12." or
// "12...") is split off even when a move follows without a space.
func (l *Lexer) scanWord(start int) *Token {
	for !l.atEOL() && classOf(l.peek()) == classWord {
		l.col++
	}
	word := l.line[start:l.col]

	n := 0
	for n < len(word) && word[n] >= '0' && word[n] <= '9' {
		n++
	}
	end := n
	for end < len(word) && word[end] == '.' {
		end++
	}
	if n > 0 && end > n {
		l.col = start + end
		bout, _ := strconv.ParseUint(string(word[:n]), 10, 32)
		return &Token{Kind: TokBout, Text: string(word[:end]), Bout: uint(bout)}
	}

	text := string(word)
	switch text {
	case "1-0", "0-1", "1/2-1/2", "*":
		return &Token{Kind: TokResult, Text: text}
	}
	return &Token{Kind: TokMove, Text: text}
}
