// Package manual holds a recorded Xiangqi game: an info map, a board and a
// tree of moves with a cursor. The board always equals the replay of the
// moves from the root to the cursor.
package manual

import (
	"github.com/lgbarn/xiangqi-manual-go/internal/engine"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// Move is one node of the move tree. The root node carries no move; every
// other node hangs either from the continuation edge of the move before it
// or from the variation edge of a sibling.
type Move struct {
	pair   xiangqi.CoordPair
	zh     string
	remark string

	next    *Move // continuation
	other   *Move // next sibling variation
	prev    *Move // node whose next or other edge holds this one
	isOther bool  // hangs from prev.other rather than prev.next

	captured engine.Capture

	// Layout numbers, valid after renumbering.
	nextNo  int
	otherNo int
	ccColNo int
}

func newRoot() *Move {
	return &Move{captured: engine.NoCapture}
}

// IsRoot reports whether mv is the sentinel root.
func (mv *Move) IsRoot() bool {
	return mv.prev == nil
}

// Pair returns the coordinates of the move.
func (mv *Move) Pair() xiangqi.CoordPair { return mv.pair }

// RowCols returns the 4-digit coordinate key, or "" for the root.
func (mv *Move) RowCols() string {
	if mv.IsRoot() {
		return ""
	}
	return mv.pair.RowCols()
}

// ICCS returns the ICCS form of the move, or "" for the root.
func (mv *Move) ICCS() string {
	if mv.IsRoot() {
		return ""
	}
	return mv.pair.ICCS()
}

// Zh returns the Chinese notation of the move.
func (mv *Move) Zh() string { return mv.zh }

// Remark returns the free-text comment on the move.
func (mv *Move) Remark() string { return mv.remark }

// Next returns the continuation, or nil.
func (mv *Move) Next() *Move { return mv.next }

// Other returns the next sibling variation, or nil.
func (mv *Move) Other() *Move { return mv.other }

// Prev returns the node this one hangs from, or nil for the root.
func (mv *Move) Prev() *Move { return mv.prev }

// IsOther reports whether the move is a variation of its Prev.
func (mv *Move) IsOther() bool { return mv.isOther }

// Parent returns the move after which this one is played: the Prev of the
// first move in its sibling chain.
func (mv *Move) Parent() *Move {
	n := mv
	for n.isOther {
		n = n.prev
	}
	return n.prev
}

// NextNo is the ply depth of the move; the root is 0.
func (mv *Move) NextNo() int { return mv.nextNo }

// OtherNo is the number of variation edges on the path from the root.
func (mv *Move) OtherNo() int { return mv.otherNo }

// CCColNo is the grid column of the move in the tabular text form.
func (mv *Move) CCColNo() int { return mv.ccColNo }

// Depth returns the number of moves played to reach mv.
func (mv *Move) Depth() int {
	depth := 0
	for n := mv; !n.IsRoot(); n = n.Parent() {
		depth++
	}
	return depth
}

// String returns the rowcols and the Chinese notation.
func (mv *Move) String() string {
	if mv.IsRoot() {
		return "root"
	}
	return mv.pair.RowCols() + " " + mv.zh
}
