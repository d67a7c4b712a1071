package matching

import (
	"strings"

	"github.com/lgbarn/xiangqi-manual-go/internal/engine"
	"github.com/lgbarn/xiangqi-manual-go/internal/hashing"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// FENPattern represents a FEN placement pattern to match, top row first.
// Besides piece letters and digit runs of empty seats it supports:
//   - ? matches any seat (empty or occupied)
//   - ! matches any occupied seat
//   - * matches zero or more seats of the row
//   - + matches any red piece
//   - - matches any black piece
//   - _ matches an empty seat
type FENPattern struct {
	Pattern       string
	Label         string // optional label for the matched position
	Hash          uint64 // position hash for exact FEN matches
	IsExact       bool   // true if this is an exact FEN (no wildcards)
	IncludeInvert bool   // also match the colour-inverted position
	rows          []string
}

// PositionMatcher selects manuals reaching a position in any line.
type PositionMatcher struct {
	patterns    []*FENPattern
	exactHashes map[uint64]*FENPattern
}

// NewPositionMatcher creates a new position matcher.
func NewPositionMatcher() *PositionMatcher {
	return &PositionMatcher{
		exactHashes: make(map[uint64]*FENPattern),
	}
}

// AddFEN adds an exact FEN position to match.
func (pm *PositionMatcher) AddFEN(fen string, label string) error {
	board, err := engine.NewBoardFromFEN(fen)
	if err != nil {
		return err
	}

	hash := hashing.GenerateZobristHash(board)
	pattern := &FENPattern{
		Pattern: fen,
		Label:   label,
		Hash:    hash,
		IsExact: true,
	}
	pm.patterns = append(pm.patterns, pattern)
	pm.exactHashes[hash] = pattern
	return nil
}

// AddPattern adds a FEN pattern with wildcards.
func (pm *PositionMatcher) AddPattern(pattern string, label string, includeInvert bool) {
	p := &FENPattern{
		Pattern:       pattern,
		Label:         label,
		IncludeInvert: includeInvert,
		rows:          strings.Split(pattern, "/"),
	}
	pm.patterns = append(pm.patterns, p)

	if includeInvert {
		inverted := invertPattern(pattern)
		pm.patterns = append(pm.patterns, &FENPattern{
			Pattern: inverted,
			Label:   label,
			rows:    strings.Split(inverted, "/"),
		})
	}
}

// MatchManual checks the start position and the position after every move
// of every line. It returns the first matching pattern or nil. The cursor
// is left unchanged.
func (pm *PositionMatcher) MatchManual(m *manual.Manual) *FENPattern {
	if len(pm.patterns) == 0 {
		return nil
	}

	saved := m.Current()
	defer m.JumpTo(saved)

	m.BackToRoot()
	if match := pm.matchPosition(m.Board()); match != nil {
		return match
	}
	for _, mv := range m.Moves() {
		m.JumpTo(mv)
		if match := pm.matchPosition(m.Board()); match != nil {
			return match
		}
	}
	return nil
}

// Match implements ManualMatcher.
func (pm *PositionMatcher) Match(m *manual.Manual) bool {
	return pm.MatchManual(m) != nil
}

// Name implements ManualMatcher.
func (pm *PositionMatcher) Name() string {
	return "PositionMatcher"
}

// matchPosition checks if a position matches any pattern.
func (pm *PositionMatcher) matchPosition(board *engine.Board) *FENPattern {
	if pattern, ok := pm.exactHashes[hashing.GenerateZobristHash(board)]; ok {
		return pattern
	}

	var rows [xiangqi.Rows]string
	chars := board.PieceChars()
	for i := range rows {
		// pattern rows run from the top edge down
		row := xiangqi.Rows - 1 - i
		rows[i] = chars[row*xiangqi.Cols : (row+1)*xiangqi.Cols]
	}
	for _, pattern := range pm.patterns {
		if !pattern.IsExact && matchPattern(rows, pattern) {
			return pattern
		}
	}
	return nil
}

// matchPattern checks the board rows against a pattern. A pattern with
// fewer rows constrains only the top rows.
func matchPattern(rows [xiangqi.Rows]string, pattern *FENPattern) bool {
	if len(pattern.rows) == 0 {
		return false
	}
	for i, patternRow := range pattern.rows {
		if i >= xiangqi.Rows {
			break
		}
		if !matchRow(rows[i], patternRow) {
			return false
		}
	}
	return true
}

// matchRow matches one row of piece chars against a pattern row.
func matchRow(boardRow, patternRow string) bool {
	bi := 0 // board index
	pi := 0 // pattern index

	for pi < len(patternRow) {
		c := patternRow[pi]
		if c == '*' {
			pi++
			if pi >= len(patternRow) {
				return true
			}
			for ; bi <= len(boardRow); bi++ {
				if matchRow(boardRow[bi:], patternRow[pi:]) {
					return true
				}
			}
			return false
		}

		if c >= '1' && c <= '9' {
			for n := int(c - '0'); n > 0; n-- {
				if bi >= len(boardRow) || boardRow[bi] != xiangqi.EmptyChar {
					return false
				}
				bi++
			}
			pi++
			continue
		}

		if bi >= len(boardRow) || !matchSeat(boardRow[bi], c) {
			return false
		}
		bi++
		pi++
	}
	return bi == len(boardRow)
}

// matchSeat matches a single seat against a pattern character.
func matchSeat(seat, c byte) bool {
	switch c {
	case '?':
		return true
	case '!':
		return seat != xiangqi.EmptyChar
	case '+':
		return seat >= 'A' && seat <= 'Z'
	case '-':
		return seat >= 'a' && seat <= 'z'
	default:
		return seat == c
	}
}

// invertPattern swaps the colours in a FEN pattern and turns the rows
// upside down, so red's pattern becomes black's.
func invertPattern(pattern string) string {
	var result strings.Builder
	for _, c := range pattern {
		switch {
		case c >= 'A' && c <= 'Z':
			result.WriteRune(c + 'a' - 'A')
		case c >= 'a' && c <= 'z':
			result.WriteRune(c - 'a' + 'A')
		case c == '+':
			result.WriteRune('-')
		case c == '-':
			result.WriteRune('+')
		default:
			result.WriteRune(c)
		}
	}

	rows := strings.Split(result.String(), "/")
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return strings.Join(rows, "/")
}

// PatternCount returns the number of patterns.
func (pm *PositionMatcher) PatternCount() int {
	return len(pm.patterns)
}
