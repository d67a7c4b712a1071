package engine

import (
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// MoveSets partitions the reachable destinations of one piece by the stage
// of the legality pipeline that removed them.
type MoveSets struct {
	Legal             []xiangqi.Coord
	RuleExcluded      []xiangqi.Coord
	SameColorExcluded []xiangqi.Coord
	CheckExcluded     []xiangqi.Coord
}

// Reachable returns every destination the geometry allows, whatever the
// occupancy.
func (m MoveSets) Reachable() []xiangqi.Coord {
	n := len(m.Legal) + len(m.RuleExcluded) + len(m.SameColorExcluded) + len(m.CheckExcluded)
	out := make([]xiangqi.Coord, 0, n)
	out = append(out, m.Legal...)
	out = append(out, m.RuleExcluded...)
	out = append(out, m.SameColorExcluded...)
	return append(out, m.CheckExcluded...)
}

// ruleMoves runs the first three stages for the piece on from: geometry,
// kind-specific blocking and same-colour exclusion.
func (b *Board) ruleMoves(from xiangqi.Coord) MoveSets {
	var sets MoveSets
	p := b.At(from)
	if p.IsNone() {
		return sets
	}
	r := rules[p.Kind]
	for _, ray := range r.reach(from, b.IsBottom(p.Color)) {
		kept, excluded := r.block(b, from, ray)
		sets.RuleExcluded = append(sets.RuleExcluded, excluded...)
		for _, to := range kept {
			if q := b.At(to); !q.IsNone() && q.Color == p.Color {
				sets.SameColorExcluded = append(sets.SameColorExcluded, to)
			} else {
				sets.Legal = append(sets.Legal, to)
			}
		}
	}
	return sets
}

// MoveSets runs the whole legality pipeline for the piece on from. An empty
// seat yields empty sets.
func (b *Board) MoveSets(from xiangqi.Coord) MoveSets {
	sets := b.ruleMoves(from)
	p := b.At(from)
	if p.IsNone() {
		return sets
	}
	candidates := sets.Legal
	sets.Legal = nil
	for _, to := range candidates {
		if b.exposesKing(xiangqi.CoordPair{From: from, To: to}, p.Color) {
			sets.CheckExcluded = append(sets.CheckExcluded, to)
		} else {
			sets.Legal = append(sets.Legal, to)
		}
	}
	return sets
}

// LegalMoves returns the legal destinations of the piece on from.
func (b *Board) LegalMoves(from xiangqi.Coord) []xiangqi.Coord {
	return b.MoveSets(from).Legal
}

// IsLegal reports whether pair is a legal move on the current board.
func (b *Board) IsLegal(pair xiangqi.CoordPair) bool {
	if !pair.IsValid() || b.At(pair.From).IsNone() {
		return false
	}
	for _, to := range b.LegalMoves(pair.From) {
		if to == pair.To {
			return true
		}
	}
	return false
}

// AllLegalMoves returns every legal move of color, pieces in arena order.
func (b *Board) AllLegalMoves(color xiangqi.Color) []xiangqi.CoordPair {
	var out []xiangqi.CoordPair
	for _, from := range b.liveCoords(color, xiangqi.NoKind) {
		for _, to := range b.LegalMoves(from) {
			out = append(out, xiangqi.CoordPair{From: from, To: to})
		}
	}
	return out
}

// IsCheckmated reports whether color has no legal move left. In Xiangqi a
// side without a move loses whether or not it is in check.
func (b *Board) IsCheckmated(color xiangqi.Color) bool {
	for _, from := range b.liveCoords(color, xiangqi.NoKind) {
		if len(b.LegalMoves(from)) > 0 {
			return false
		}
	}
	return true
}

// IsFaced reports whether the two kings share a column with nothing between
// them.
func (b *Board) IsFaced() bool {
	red, ok := b.KingCoord(xiangqi.Red)
	if !ok {
		return false
	}
	black, ok := b.KingCoord(xiangqi.Black)
	if !ok || red.Col != black.Col {
		return false
	}
	low, high := red.Row, black.Row
	if low > high {
		low, high = high, low
	}
	for row := low + 1; row < high; row++ {
		if !b.IsEmpty(xiangqi.NewCoord(row, red.Col)) {
			return false
		}
	}
	return true
}

// IsInCheck reports whether any piece of the other colour can reach the
// king of color, ignoring whether that piece's own move would be legal.
func (b *Board) IsInCheck(color xiangqi.Color) bool {
	king, ok := b.KingCoord(color)
	if !ok {
		return false
	}
	for _, from := range b.liveCoords(color.Opposite(), xiangqi.NoKind) {
		for _, to := range b.ruleMoves(from).Legal {
			if to == king {
				return true
			}
		}
	}
	return false
}

// exposesKing plays pair tentatively and reports whether it leaves the
// king of color faced or in check.
func (b *Board) exposesKing(pair xiangqi.CoordPair, color xiangqi.Color) bool {
	t := b.tryMove(pair)
	defer t.restore()
	return b.IsFaced() || b.IsInCheck(color)
}

// tentative is a move played only to probe the resulting position.
type tentative struct {
	b        *Board
	pair     xiangqi.CoordPair
	captured Capture
}

func (b *Board) tryMove(pair xiangqi.CoordPair) tentative {
	return tentative{b: b, pair: pair, captured: b.Do(pair)}
}

func (t tentative) restore() {
	t.b.Undo(t.pair, t.captured)
}
