package engine

import (
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// rule is the movement geometry of one piece kind. reach lists the
// destinations that ignore occupancy, grouped into rays ordered near to
// far; block splits one ray into kept and rule-excluded destinations.
type rule struct {
	reach func(from xiangqi.Coord, isBottom bool) [][]xiangqi.Coord
	block func(b *Board, from xiangqi.Coord, ray []xiangqi.Coord) (kept, excluded []xiangqi.Coord)
}

var rules = [xiangqi.NumKinds]rule{
	xiangqi.King:    {reach: kingReach, block: noBlock},
	xiangqi.Advisor: {reach: advisorReach, block: noBlock},
	xiangqi.Bishop:  {reach: bishopReach, block: legBlock},
	xiangqi.Knight:  {reach: knightReach, block: legBlock},
	xiangqi.Rook:    {reach: lineReach, block: rookBlock},
	xiangqi.Cannon:  {reach: lineReach, block: cannonBlock},
	xiangqi.Pawn:    {reach: pawnReach, block: noBlock},
}

var (
	orthogonal = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal   = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	knightJump = [8][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
)

// singles wraps each destination in a ray of its own.
func singles(coords []xiangqi.Coord) [][]xiangqi.Coord {
	rays := make([][]xiangqi.Coord, len(coords))
	for i, c := range coords {
		rays[i] = []xiangqi.Coord{c}
	}
	return rays
}

func offsets(from xiangqi.Coord, deltas [][2]int, keep func(xiangqi.Coord) bool) []xiangqi.Coord {
	var out []xiangqi.Coord
	for _, d := range deltas {
		c := xiangqi.NewCoord(from.Row+d[0], from.Col+d[1])
		if c.IsValid() && keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func kingReach(from xiangqi.Coord, isBottom bool) [][]xiangqi.Coord {
	return singles(offsets(from, orthogonal[:], func(c xiangqi.Coord) bool {
		return c.InPalace(isBottom)
	}))
}

func advisorReach(from xiangqi.Coord, isBottom bool) [][]xiangqi.Coord {
	return singles(offsets(from, diagonal[:], func(c xiangqi.Coord) bool {
		return c.InPalace(isBottom)
	}))
}

func bishopReach(from xiangqi.Coord, isBottom bool) [][]xiangqi.Coord {
	var twice [4][2]int
	for i, d := range diagonal {
		twice[i] = [2]int{2 * d[0], 2 * d[1]}
	}
	return singles(offsets(from, twice[:], func(c xiangqi.Coord) bool {
		return c.OnOwnSide(isBottom)
	}))
}

func knightReach(from xiangqi.Coord, _ bool) [][]xiangqi.Coord {
	return singles(offsets(from, knightJump[:], func(xiangqi.Coord) bool { return true }))
}

// lineReach returns the four rays in the order negative row, positive row,
// negative column, positive column.
func lineReach(from xiangqi.Coord, _ bool) [][]xiangqi.Coord {
	rays := make([][]xiangqi.Coord, 0, len(orthogonal))
	for _, d := range orthogonal {
		var ray []xiangqi.Coord
		for c := xiangqi.NewCoord(from.Row+d[0], from.Col+d[1]); c.IsValid(); c = xiangqi.NewCoord(c.Row+d[0], c.Col+d[1]) {
			ray = append(ray, c)
		}
		rays = append(rays, ray)
	}
	return rays
}

func pawnReach(from xiangqi.Coord, isBottom bool) [][]xiangqi.Coord {
	forward := 1
	if !isBottom {
		forward = -1
	}
	deltas := [][2]int{{forward, 0}}
	if !from.OnOwnSide(isBottom) {
		deltas = append(deltas, [2]int{0, -1}, [2]int{0, 1})
	}
	return singles(offsets(from, deltas, func(xiangqi.Coord) bool { return true }))
}

func noBlock(_ *Board, _ xiangqi.Coord, ray []xiangqi.Coord) (kept, excluded []xiangqi.Coord) {
	return ray, nil
}

// legCoord returns the square a bishop or knight steps over.
func legCoord(from, to xiangqi.Coord) xiangqi.Coord {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	switch {
	case abs(dr) == 2 && abs(dc) == 2:
		return xiangqi.NewCoord(from.Row+dr/2, from.Col+dc/2)
	case abs(dr) == 2:
		return xiangqi.NewCoord(from.Row+dr/2, from.Col)
	default:
		return xiangqi.NewCoord(from.Row, from.Col+dc/2)
	}
}

func legBlock(b *Board, from xiangqi.Coord, ray []xiangqi.Coord) (kept, excluded []xiangqi.Coord) {
	for _, to := range ray {
		if b.IsEmpty(legCoord(from, to)) {
			kept = append(kept, to)
		} else {
			excluded = append(excluded, to)
		}
	}
	return kept, excluded
}

// rookBlock keeps empty squares up to and including the first occupied
// square.
func rookBlock(b *Board, _ xiangqi.Coord, ray []xiangqi.Coord) (kept, excluded []xiangqi.Coord) {
	for i, c := range ray {
		kept = append(kept, c)
		if !b.IsEmpty(c) {
			return kept, append(excluded, ray[i+1:]...)
		}
	}
	return kept, nil
}

// cannonBlock keeps empty squares before the screen and the first occupied
// square after it.
func cannonBlock(b *Board, _ xiangqi.Coord, ray []xiangqi.Coord) (kept, excluded []xiangqi.Coord) {
	screened := false
	for i, c := range ray {
		empty := b.IsEmpty(c)
		switch {
		case !screened && empty:
			kept = append(kept, c)
		case !screened:
			screened = true
			excluded = append(excluded, c)
		case empty:
			excluded = append(excluded, c)
		default:
			kept = append(kept, c)
			return kept, append(excluded, ray[i+1:]...)
		}
	}
	return kept, excluded
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// PlacementSeats returns the squares a piece of kind may stand on when the
// side plays from the bottom half (isBottom) or the top half.
func PlacementSeats(kind xiangqi.Kind, isBottom bool) []xiangqi.Coord {
	var bottom []xiangqi.Coord
	switch kind {
	case xiangqi.King:
		for row := 0; row <= 2; row++ {
			for col := 3; col <= 5; col++ {
				bottom = append(bottom, xiangqi.NewCoord(row, col))
			}
		}
	case xiangqi.Advisor:
		bottom = []xiangqi.Coord{{Row: 0, Col: 3}, {Row: 0, Col: 5}, {Row: 1, Col: 4}, {Row: 2, Col: 3}, {Row: 2, Col: 5}}
	case xiangqi.Bishop:
		bottom = []xiangqi.Coord{
			{Row: 0, Col: 2}, {Row: 0, Col: 6},
			{Row: 2, Col: 0}, {Row: 2, Col: 4}, {Row: 2, Col: 8},
			{Row: 4, Col: 2}, {Row: 4, Col: 6},
		}
	case xiangqi.Pawn:
		for row := 3; row <= 4; row++ {
			for col := 0; col < xiangqi.Cols; col += 2 {
				bottom = append(bottom, xiangqi.NewCoord(row, col))
			}
		}
		for seat := xiangqi.RiverRow * xiangqi.Cols; seat < xiangqi.NumSeats; seat++ {
			bottom = append(bottom, xiangqi.CoordFromIndex(seat))
		}
	case xiangqi.Knight, xiangqi.Rook, xiangqi.Cannon:
		for seat := 0; seat < xiangqi.NumSeats; seat++ {
			bottom = append(bottom, xiangqi.CoordFromIndex(seat))
		}
	}
	if isBottom {
		return bottom
	}
	top := make([]xiangqi.Coord, len(bottom))
	for i, c := range bottom {
		top[i] = xiangqi.ChangeCoord(c, xiangqi.Rotate180)
	}
	return top
}

// IsPlacementValid reports whether a piece of kind may stand on c.
func IsPlacementValid(kind xiangqi.Kind, isBottom bool, c xiangqi.Coord) bool {
	for _, s := range PlacementSeats(kind, isBottom) {
		if s == c {
			return true
		}
	}
	return false
}
