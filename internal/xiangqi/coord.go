package xiangqi

import (
	"fmt"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
)

// Board dimensions. Row 0 is the bottom edge, row 9 the top edge; column 0
// is the left edge seen from the bottom side.
const (
	Rows     = 10
	Cols     = 9
	NumSeats = Rows * Cols

	// RiverRow is the first row of the top half.
	RiverRow = Rows / 2
)

// Coord is a board coordinate.
type Coord struct {
	Row int
	Col int
}

// NewCoord creates a coordinate.
func NewCoord(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// CoordFromIndex converts a seat index (row*Cols+col) to a coordinate.
func CoordFromIndex(index int) Coord {
	return Coord{Row: index / Cols, Col: index % Cols}
}

// Index returns the seat index of the coordinate.
func (c Coord) Index() int {
	return c.Row*Cols + c.Col
}

// IsValid reports whether row and col lie on the board.
func IsValid(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// IsValid reports whether the coordinate lies on the board.
func (c Coord) IsValid() bool {
	return IsValid(c.Row, c.Col)
}

// SymmetryRow returns the row mirrored across the river.
func (c Coord) SymmetryRow() int {
	return Rows - 1 - c.Row
}

// SymmetryCol returns the column mirrored across the centre file.
func (c Coord) SymmetryCol() int {
	return Cols - 1 - c.Col
}

// IsBottomHalf reports whether the coordinate is below the river.
func (c Coord) IsBottomHalf() bool {
	return c.Row < RiverRow
}

// InPalace reports whether the coordinate is inside the palace of the
// bottom side (isBottom) or the top side.
func (c Coord) InPalace(isBottom bool) bool {
	if c.Col < 3 || c.Col > 5 {
		return false
	}
	if isBottom {
		return c.Row >= 0 && c.Row <= 2
	}
	return c.Row >= Rows-3 && c.Row < Rows
}

// OnOwnSide reports whether the coordinate is on the home half of the
// bottom side (isBottom) or the top side.
func (c Coord) OnOwnSide(isBottom bool) bool {
	return c.IsBottomHalf() == isBottom
}

// String returns "(row,col)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// ICCS returns the column-letter/row-digit form, e.g. "h2".
func (c Coord) ICCS() string {
	return string([]byte{byte('a' + c.Col), byte('0' + c.Row)})
}

// ParseICCSCoord parses a two-character ICCS coordinate.
func ParseICCSCoord(s string) (Coord, error) {
	if len(s) != 2 {
		return Coord{}, fmt.Errorf("ICCS coordinate %q: %w", s, errors.ErrOutOfRange)
	}
	col := s[0]
	if col >= 'A' && col <= 'I' {
		col += 'a' - 'A'
	}
	c := Coord{Row: int(s[1]) - '0', Col: int(col) - 'a'}
	if !c.IsValid() {
		return Coord{}, fmt.Errorf("ICCS coordinate %q: %w", s, errors.ErrOutOfRange)
	}
	return c, nil
}

// ChangeType identifies a layout transform.
type ChangeType int

const (
	NoChange ChangeType = iota
	// MirrorHorizontal flips the board left to right.
	MirrorHorizontal
	// Rotate180 turns the board half a turn.
	Rotate180
	// MirrorVertical flips the board upside down. Only used to order
	// coordinates for display; it is not a legal board transform.
	MirrorVertical
	// ColorExchange swaps the colours of all pieces. Coordinates are
	// unchanged.
	ColorExchange
)

var changeTypeNames = map[ChangeType]string{
	NoChange:         "none",
	MirrorHorizontal: "mirror",
	Rotate180:        "rotate",
	MirrorVertical:   "flip",
	ColorExchange:    "exchange",
}

// String returns the short name of the transform.
func (ct ChangeType) String() string {
	if name, ok := changeTypeNames[ct]; ok {
		return name
	}
	return "unknown"
}

// ParseChangeType converts a short name back to a transform.
func ParseChangeType(name string) (ChangeType, error) {
	for ct, n := range changeTypeNames {
		if n == name {
			return ct, nil
		}
	}
	return NoChange, fmt.Errorf("layout transform %q: %w", name, errors.ErrUnsupportedLayout)
}

// ChangeCoord applies a transform to a coordinate.
func ChangeCoord(c Coord, ct ChangeType) Coord {
	switch ct {
	case MirrorHorizontal:
		return Coord{Row: c.Row, Col: c.SymmetryCol()}
	case Rotate180:
		return Coord{Row: c.SymmetryRow(), Col: c.SymmetryCol()}
	case MirrorVertical:
		return Coord{Row: c.SymmetryRow(), Col: c.Col}
	default:
		return c
	}
}

// CoordPair is a move from one coordinate to another.
type CoordPair struct {
	From Coord
	To   Coord
}

// NewCoordPair creates a coordinate pair.
func NewCoordPair(fromRow, fromCol, toRow, toCol int) CoordPair {
	return CoordPair{From: NewCoord(fromRow, fromCol), To: NewCoord(toRow, toCol)}
}

// IsValid reports whether both ends lie on the board and differ.
func (p CoordPair) IsValid() bool {
	return p.From.IsValid() && p.To.IsValid() && p.From != p.To
}

// RowCols returns the canonical 4-digit key "fromRow fromCol toRow toCol".
func (p CoordPair) RowCols() string {
	return string([]byte{
		byte('0' + p.From.Row), byte('0' + p.From.Col),
		byte('0' + p.To.Row), byte('0' + p.To.Col),
	})
}

// ParseRowCols parses a 4-digit key produced by RowCols.
func ParseRowCols(s string) (CoordPair, error) {
	if len(s) != 4 {
		return CoordPair{}, fmt.Errorf("rowcols %q: %w", s, errors.ErrOutOfRange)
	}
	var v [4]int
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return CoordPair{}, fmt.Errorf("rowcols %q: %w", s, errors.ErrOutOfRange)
		}
		v[i] = int(s[i] - '0')
	}
	p := NewCoordPair(v[0], v[1], v[2], v[3])
	if !p.IsValid() {
		return CoordPair{}, fmt.Errorf("rowcols %q: %w", s, errors.ErrOutOfRange)
	}
	return p, nil
}

// ICCS returns the 4-character ICCS form, e.g. "h2e2".
func (p CoordPair) ICCS() string {
	return p.From.ICCS() + p.To.ICCS()
}

// ParseICCS parses a 4-character ICCS move. A '-' between the halves is
// accepted.
func ParseICCS(s string) (CoordPair, error) {
	if len(s) == 5 && s[2] == '-' {
		s = s[:2] + s[3:]
	}
	if len(s) != 4 {
		return CoordPair{}, fmt.Errorf("ICCS move %q: %w", s, errors.ErrOutOfRange)
	}
	from, err := ParseICCSCoord(s[:2])
	if err != nil {
		return CoordPair{}, err
	}
	to, err := ParseICCSCoord(s[2:])
	if err != nil {
		return CoordPair{}, err
	}
	return CoordPair{From: from, To: to}, nil
}

// Change applies a transform to both ends of the pair.
func (p CoordPair) Change(ct ChangeType) CoordPair {
	return CoordPair{From: ChangeCoord(p.From, ct), To: ChangeCoord(p.To, ct)}
}

// String returns the rowcols form.
func (p CoordPair) String() string {
	return p.RowCols()
}
