package engine

import (
	"fmt"
	"sort"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// frontToBack sorts coordinates on one column so the piece nearest the
// opponent comes first.
func frontToBack(coords []xiangqi.Coord, isBottom bool) {
	sort.SliceStable(coords, func(i, j int) bool {
		if isBottom {
			return coords[i].Row > coords[j].Row
		}
		return coords[i].Row < coords[j].Row
	})
}

func onColumn(coords []xiangqi.Coord, col int) []xiangqi.Coord {
	var out []xiangqi.Coord
	for _, c := range coords {
		if c.Col == col {
			out = append(out, c)
		}
	}
	return out
}

// stackedCoords returns the pieces of one kind that share a column with
// another of the same kind. Columns run from the mover's right to left and
// each column front to back; only pawns can stack on more than one column.
func (b *Board) stackedCoords(color xiangqi.Color, kind xiangqi.Kind) []xiangqi.Coord {
	isBottom := b.IsBottom(color)
	live := b.liveCoords(color, kind)

	var cols []int
	for col := 0; col < xiangqi.Cols; col++ {
		if len(onColumn(live, col)) > 1 {
			cols = append(cols, col)
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		return xiangqi.ColNum(cols[i], isBottom) < xiangqi.ColNum(cols[j], isBottom)
	})

	var out []xiangqi.Coord
	for _, col := range cols {
		same := onColumn(live, col)
		frontToBack(same, isBottom)
		out = append(out, same...)
	}
	return out
}

// Zh returns the Chinese notation of pair, which must be a move of the
// piece currently on pair.From.
func (b *Board) Zh(pair xiangqi.CoordPair) (string, error) {
	p := b.At(pair.From)
	if p.IsNone() {
		return "", fmt.Errorf("no piece on %v: %w", pair.From, errors.ErrInvalidMove)
	}
	isBottom := b.IsBottom(p.Color)
	from, to := pair.From, pair.To

	text := make([]rune, 0, 4)
	if p.Kind.IsStrong() && len(onColumn(b.liveCoords(p.Color, p.Kind), from.Col)) > 1 {
		stacked := b.stackedCoords(p.Color, p.Kind)
		pos := indexOf(stacked, from)
		text = append(text, xiangqi.IndexChars(len(stacked))[pos], xiangqi.PieceName(p))
	} else {
		text = append(text, xiangqi.PieceName(p), xiangqi.NumChar(p.Color, xiangqi.ColNum(from.Col, isBottom)))
	}

	switch {
	case from.Row == to.Row:
		text = append(text, xiangqi.Sideways, xiangqi.NumChar(p.Color, xiangqi.ColNum(to.Col, isBottom)))
	default:
		word := xiangqi.Backward
		if (to.Row > from.Row) == isBottom {
			word = xiangqi.Forward
		}
		num := xiangqi.ColNum(to.Col, isBottom)
		if p.Kind.IsLine() {
			num = abs(to.Row - from.Row)
		}
		text = append(text, word, xiangqi.NumChar(p.Color, num))
	}
	return string(text), nil
}

func indexOf(coords []xiangqi.Coord, c xiangqi.Coord) int {
	for i, x := range coords {
		if x == c {
			return i
		}
	}
	return -1
}

// ParseZh converts Chinese notation back to a coordinate pair on the
// current board. The colour is taken from the style of the last numeral.
func (b *Board) ParseZh(zh string) (xiangqi.CoordPair, error) {
	text := []rune(zh)
	if len(text) != 4 || !xiangqi.IsMoveChar(text[2]) {
		return xiangqi.CoordPair{}, fmt.Errorf("zh %q: %w", zh, errors.ErrInvalidMove)
	}
	num, color, ok := xiangqi.ParseNumChar(text[3])
	if !ok {
		return xiangqi.CoordPair{}, fmt.Errorf("zh %q numeral: %w", zh, errors.ErrInvalidMove)
	}
	isBottom := b.IsBottom(color)

	var kind xiangqi.Kind
	var candidates []xiangqi.Coord
	if kind = xiangqi.KindFromName(text[0]); kind != xiangqi.NoKind {
		colNum, _, ok := xiangqi.ParseNumChar(text[1])
		if !ok {
			return xiangqi.CoordPair{}, fmt.Errorf("zh %q column: %w", zh, errors.ErrInvalidMove)
		}
		candidates = onColumn(b.liveCoords(color, kind), xiangqi.ColFromNum(colNum, isBottom))
	} else {
		kind = xiangqi.KindFromName(text[1])
		if kind == xiangqi.NoKind {
			return xiangqi.CoordPair{}, fmt.Errorf("zh %q piece: %w", zh, errors.ErrInvalidMove)
		}
		stacked := b.stackedCoords(color, kind)
		if pos := xiangqi.ParseIndexChar(text[0], len(stacked)); pos >= 0 {
			candidates = stacked[pos : pos+1]
		}
	}
	if len(candidates) == 0 {
		return xiangqi.CoordPair{}, fmt.Errorf("zh %q matches no piece: %w", zh, errors.ErrInvalidMove)
	}

	// Advisors and bishops may share a column; only one of them can make
	// the written move.
	var first xiangqi.CoordPair
	for _, from := range candidates {
		pair := xiangqi.CoordPair{From: from, To: destination(kind, from, text[2], num, isBottom)}
		if !pair.To.IsValid() {
			continue
		}
		if len(candidates) == 1 || b.IsLegal(pair) {
			return pair, nil
		}
		if !first.IsValid() {
			first = pair
		}
	}
	if first.IsValid() {
		return first, nil
	}
	return xiangqi.CoordPair{}, fmt.Errorf("zh %q leaves the board: %w", zh, errors.ErrInvalidMove)
}

// destination computes where a piece on from lands for a direction word
// and numeral. Diagonal movers derive the row step from the column step.
func destination(kind xiangqi.Kind, from xiangqi.Coord, word rune, num int, isBottom bool) xiangqi.Coord {
	if word == xiangqi.Sideways {
		return xiangqi.NewCoord(from.Row, xiangqi.ColFromNum(num, isBottom))
	}
	sign := 1
	if word == xiangqi.Backward {
		sign = -1
	}
	if !isBottom {
		sign = -sign
	}
	if kind.IsLine() {
		return xiangqi.NewCoord(from.Row+sign*num, from.Col)
	}
	toCol := xiangqi.ColFromNum(num, isBottom)
	step := 0
	switch away := abs(toCol - from.Col); kind {
	case xiangqi.Advisor:
		step = away
	case xiangqi.Bishop:
		step = 2
	case xiangqi.Knight:
		step = 1
		if away == 1 {
			step = 2
		}
	}
	return xiangqi.NewCoord(from.Row+sign*step, toCol)
}
