package manual

import (
	"sort"

	"go.uber.org/zap"

	"github.com/lgbarn/xiangqi-manual-go/internal/engine"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// Info keys with a fixed meaning. Any other key may be stored as well.
const (
	KeyTitle   = "TITLE"
	KeyEvent   = "EVENT"
	KeyDate    = "DATE"
	KeySite    = "SITE"
	KeyRed     = "RED"
	KeyBlack   = "BLACK"
	KeyOpening = "OPENING"
	KeyWriter  = "WRITER"
	KeyAuthor  = "AUTHOR"
	KeyType    = "TYPE"
	KeyResult  = "RESULT"
	KeyVersion = "VERSION"
	KeySource  = "SOURCE"
	KeyFEN     = "FEN"
)

// InfoKeys lists the well-known keys in the order writers emit them.
var InfoKeys = []string{
	KeyTitle, KeyEvent, KeyDate, KeySite, KeyBlack, KeyRed, KeyOpening,
	KeyWriter, KeyAuthor, KeyType, KeyResult, KeyVersion, KeySource, KeyFEN,
}

// Manual is a game record.
type Manual struct {
	info    map[string]string
	board   *engine.Board
	root    *Move
	current *Move
	log     *zap.SugaredLogger

	numbered bool
}

// Option configures a Manual.
type Option func(*Manual)

// WithLogger sets the logger used for debug tracing of tree edits.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Manual) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates an empty manual in the starting position.
func New(opts ...Option) *Manual {
	m := &Manual{
		info:  make(map[string]string),
		board: engine.NewInitialBoard(),
		root:  newRoot(),
		log:   zap.NewNop().Sugar(),
	}
	m.current = m.root
	m.info[KeyFEN] = m.board.FullFEN()
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFromFEN creates an empty manual starting from fen.
func NewFromFEN(fen string, opts ...Option) (*Manual, error) {
	m := New(opts...)
	if err := m.SetFEN(fen); err != nil {
		return nil, err
	}
	return m, nil
}

// SetFEN replaces the starting position. The move tree is discarded.
func (m *Manual) SetFEN(fen string) error {
	b, err := engine.NewBoardFromFEN(fen)
	if err != nil {
		return err
	}
	if misplaced := b.MisplacedPieces(); len(misplaced) > 0 {
		m.log.Warnw("pieces outside their placement area", "fen", fen, "coords", misplaced)
	}
	m.release(m.root.next)
	m.root.next = nil
	m.board = b
	m.current = m.root
	m.numbered = false
	m.info[KeyFEN] = b.FullFEN()
	return nil
}

// StartFEN returns the FEN of the position before the first move.
func (m *Manual) StartFEN() string {
	return m.info[KeyFEN]
}

// Info returns one info value.
func (m *Manual) Info(key string) string {
	return m.info[key]
}

// SetInfo stores one info value. The FEN key is owned by SetFEN and is
// ignored here.
func (m *Manual) SetInfo(key, value string) {
	if key == KeyFEN {
		return
	}
	m.info[key] = value
}

// InfoMap returns a copy of the info map.
func (m *Manual) InfoMap() map[string]string {
	out := make(map[string]string, len(m.info))
	for k, v := range m.info {
		out[k] = v
	}
	return out
}

// SortedInfoKeys returns the info keys: well-known keys first in writer
// order, then the rest alphabetically.
func (m *Manual) SortedInfoKeys() []string {
	var keys []string
	known := make(map[string]bool, len(InfoKeys))
	for _, k := range InfoKeys {
		known[k] = true
		if _, ok := m.info[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m.info {
		if !known[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Root returns the sentinel root of the move tree.
func (m *Manual) Root() *Move { return m.root }

// Current returns the cursor node.
func (m *Manual) Current() *Move { return m.current }

// Board returns the board at the cursor. Callers must not modify it.
func (m *Manual) Board() *engine.Board { return m.board }

// Logger returns the manual's logger.
func (m *Manual) Logger() *zap.SugaredLogger { return m.log }

// RootRemark returns the remark on the root node.
func (m *Manual) RootRemark() string { return m.root.remark }

// BottomColor returns the colour playing from the bottom half at the start.
func (m *Manual) BottomColor() xiangqi.Color {
	b, err := engine.NewBoardFromFEN(m.StartFEN())
	if err != nil {
		return m.board.BottomColor()
	}
	return b.BottomColor()
}
