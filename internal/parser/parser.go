package parser

import (
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

type options struct {
	file string
	log  *zap.SugaredLogger
}

// Option configures a parser.
type Option func(*options)

// WithFile names the input in error messages.
func WithFile(name string) Option {
	return func(o *options) { o.file = name }
}

// WithLogger sets the logger handed to the manuals being built.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parser parses linear manual text: an info header, an optional root remark
// and a move list with nested variations.
type Parser struct {
	lexer        *Lexer
	currentToken *Token
	notation     Notation
	opts         options
}

// NewParser creates a new parser for the given reader. Moves are expected
// in the given notation; a move word in the other notation is accepted
// too.
func NewParser(r io.Reader, notation Notation, opts ...Option) *Parser {
	return &Parser{
		lexer:    NewLexer(r),
		notation: notation,
		opts:     newOptions(opts),
	}
}

// nextToken gets the next token from the lexer.
func (p *Parser) nextToken() {
	p.currentToken = p.lexer.NextToken()
}

// errorAt builds a ParseError located at tok.
func (p *Parser) errorAt(tok *Token, err error, expected string) error {
	got := tok.Kind.String()
	if tok.Text != "" {
		got = tok.Text
	}
	return &errors.ParseError{
		Err:      err,
		File:     p.opts.file,
		Line:     int(tok.Line),
		Column:   int(tok.Column),
		Expected: expected,
		Got:      got,
	}
}

// Parse reads the whole input into a new manual. Nothing is returned
// unless the input parses completely.
func (p *Parser) Parse() (*manual.Manual, error) {
	p.nextToken()

	info, err := p.parseInfoHeader()
	if err != nil {
		return nil, err
	}
	m := manual.New(manual.WithLogger(p.opts.log))
	if err := m.SetInfoMap(info); err != nil {
		return nil, &errors.ParseError{Err: err, File: p.opts.file, Expected: "FEN", Got: info[manual.KeyFEN]}
	}

	remark, err := p.parseRemarks()
	if err != nil {
		return nil, err
	}
	m.SetRootRemark(remark)

	if err := p.parseMoveList(m); err != nil {
		return nil, err
	}
	m.BackToRoot()
	return m, nil
}

// ParseHeader reads only the info header.
func (p *Parser) ParseHeader() (map[string]string, error) {
	p.nextToken()
	return p.parseInfoHeader()
}

// parseInfoHeader parses zero or more [KEY "value"] header lines.
func (p *Parser) parseInfoHeader() (map[string]string, error) {
	info := make(map[string]string)
	for p.currentToken.Kind == TokInfoKey {
		name := p.currentToken.Text
		p.nextToken()
		if p.currentToken.Kind != TokInfoValue {
			return nil, p.errorAt(p.currentToken, errors.ErrMalformedFile, "info value for "+name)
		}
		info[name] = p.currentToken.Text
		p.nextToken()
	}
	if p.currentToken.Kind == TokError {
		return nil, p.errorAt(p.currentToken, errors.ErrMalformedFile, "")
	}
	return info, nil
}

// parseRemarks parses zero or more remarks and joins them.
func (p *Parser) parseRemarks() (string, error) {
	var parts []string
	for p.currentToken.Kind == TokRemark {
		parts = append(parts, p.currentToken.Text)
		p.nextToken()
	}
	if p.currentToken.Kind == TokError {
		return "", p.errorAt(p.currentToken, errors.ErrMalformedFile, "")
	}
	return strings.Join(parts, "\n"), nil
}

// parseMoveList parses moves, remarks and variation groups until the end
// of input. A '(' opens a variation of the move before it; the cursor
// returns to that move at the matching ')'. A remark between '(' and the
// first variation move belongs to that move. Other remarks join the
// cursor's remark on a new line.
func (p *Parser) parseMoveList(m *manual.Manual) error {
	var open []*manual.Move
	isOther := false
	pending := ""

	for {
		tok := p.currentToken
		switch tok.Kind {
		case TokEOF:
			if len(open) > 0 {
				return p.errorAt(tok, errors.ErrMalformedFile, "')'")
			}
			if isOther {
				return p.errorAt(tok, errors.ErrMalformedFile, "move")
			}
			return nil

		case TokBout:
			p.nextToken()

		case TokMove:
			if err := p.appendMove(m, tok, isOther); err != nil {
				return err
			}
			if pending != "" {
				m.SetRemark(pending)
				pending = ""
			}
			isOther = false
			p.nextToken()

		case TokRemark:
			remark, err := p.parseRemarks()
			if err != nil {
				return err
			}
			if isOther {
				pending = joinRemark(pending, remark)
			} else {
				m.SetRemark(joinRemark(m.Current().Remark(), remark))
			}

		case TokOpenVariation:
			if m.Current().IsRoot() || isOther {
				return p.errorAt(tok, errors.ErrMalformedFile, "move")
			}
			open = append(open, m.Current())
			isOther = true
			p.nextToken()

		case TokCloseVariation:
			if isOther {
				return p.errorAt(tok, errors.ErrMalformedFile, "move")
			}
			m.JumpTo(open[len(open)-1])
			open = open[:len(open)-1]
			p.nextToken()

		case TokResult:
			if len(open) == 0 && m.Info(manual.KeyResult) == "" {
				m.SetInfo(manual.KeyResult, tok.Text)
			}
			p.nextToken()

		case TokInfoKey, TokInfoValue:
			return p.errorAt(tok, errors.ErrMalformedFile, "move")

		default:
			return p.errorAt(tok, errors.ErrMalformedFile, "")
		}
	}
}

func joinRemark(old, more string) string {
	if old == "" {
		return more
	}
	return old + "\n" + more
}

// appendMove adds one move word at the cursor. A variation goes to the end
// of the cursor's variation chain so text order is kept.
func (p *Parser) appendMove(m *manual.Manual, tok *Token, isOther bool) error {
	at := m.Current()
	if isOther {
		for at.Other() != nil {
			at = at.Other()
		}
	}

	notation, ok := DecodeMove(tok.Text)
	if !ok {
		return p.errorAt(tok, errors.ErrMalformedFile, p.notation.String()+" move")
	}
	var err error
	switch notation {
	case NotationZh:
		_, err = m.AppendZhAfter(at, tok.Text, "", isOther)
	default:
		var pair xiangqi.CoordPair
		pair, err = xiangqi.ParseICCS(tok.Text)
		if err == nil {
			_, err = m.AppendAfter(at, pair, "", isOther)
		}
	}
	if err != nil {
		return p.errorAt(tok, err, "")
	}
	return nil
}

// Parse reads linear text in the given notation.
func Parse(r io.Reader, notation Notation, opts ...Option) (*manual.Manual, error) {
	return NewParser(r, notation, opts...).Parse()
}
