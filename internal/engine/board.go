// Package engine provides the Xiangqi board: piece and seat arenas,
// movement rules, the legality pipeline, check detection, layout
// transforms and the Chinese move notation.
package engine

import (
	"fmt"
	"strings"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// NumPieces is the number of pieces in the arena, 16 per colour.
const NumPieces = 32

// noSeat marks a piece that is off the board, and noPiece an empty seat.
const (
	noSeat  = -1
	noPiece = -1
)

// pieceOrder is the arena layout of one colour. Red uses indices 0..15 and
// black 16..31, so a piece's counterpart is always 16 slots away.
var pieceOrder = [NumPieces / 2]xiangqi.Kind{
	xiangqi.King,
	xiangqi.Advisor, xiangqi.Advisor,
	xiangqi.Bishop, xiangqi.Bishop,
	xiangqi.Knight, xiangqi.Knight,
	xiangqi.Rook, xiangqi.Rook,
	xiangqi.Cannon, xiangqi.Cannon,
	xiangqi.Pawn, xiangqi.Pawn, xiangqi.Pawn, xiangqi.Pawn, xiangqi.Pawn,
}

type pieceSlot struct {
	piece xiangqi.Piece
	seat  int
}

// Capture records the arena index of a piece taken by Do, or NoCapture.
type Capture int

// NoCapture means the move did not take a piece.
const NoCapture Capture = -1

// Board owns the 32 pieces and the 90 seats. Every piece either sits on
// exactly one seat that points back to it, or is off the board.
type Board struct {
	pieces [NumPieces]pieceSlot
	seats  [xiangqi.NumSeats]int
}

// NewBoard creates an empty board with all pieces off the board.
func NewBoard() *Board {
	b := &Board{}
	for i := range b.pieces {
		color := xiangqi.Red
		if i >= NumPieces/2 {
			color = xiangqi.Black
		}
		b.pieces[i] = pieceSlot{
			piece: xiangqi.Piece{Color: color, Kind: pieceOrder[i%(NumPieces/2)]},
			seat:  noSeat,
		}
	}
	for i := range b.seats {
		b.seats[i] = noPiece
	}
	return b
}

// NewInitialBoard creates a board set up in the starting position.
func NewInitialBoard() *Board {
	b := NewBoard()
	if err := b.SetPieceChars(xiangqi.InitialPieceChars); err != nil {
		panic(err)
	}
	return b
}

// SetPieceChars places pieces from a 90-char occupancy string. Each
// character takes the first unused arena slot of its colour and kind. On
// error the board is left unchanged.
func (b *Board) SetPieceChars(chars string) error {
	if len(chars) != xiangqi.NumSeats {
		return fmt.Errorf("occupancy string has %d chars: %w", len(chars), errors.ErrInvalidFEN)
	}

	nb := NewBoard()
	for seat := 0; seat < xiangqi.NumSeats; seat++ {
		c := chars[seat]
		if c == xiangqi.EmptyChar {
			continue
		}
		p, ok := xiangqi.PieceFromChar(c)
		if !ok {
			return fmt.Errorf("invalid piece character %q: %w", c, errors.ErrInvalidFEN)
		}
		idx := nb.unusedSlot(p)
		if idx == noPiece {
			return fmt.Errorf("too many pieces %q: %w", c, errors.ErrInvalidFEN)
		}
		nb.relocate(idx, seat)
	}
	*b = *nb
	return nil
}

func (b *Board) unusedSlot(p xiangqi.Piece) int {
	for i := range b.pieces {
		if b.pieces[i].piece == p && b.pieces[i].seat == noSeat {
			return i
		}
	}
	return noPiece
}

// PieceChars returns the 90-char occupancy string, row 0 first.
func (b *Board) PieceChars() string {
	out := make([]byte, xiangqi.NumSeats)
	for seat, idx := range b.seats {
		if idx == noPiece {
			out[seat] = xiangqi.EmptyChar
		} else {
			out[seat] = b.pieces[idx].piece.Char()
		}
	}
	return string(out)
}

// At returns the piece on a coordinate, or NoPiece.
func (b *Board) At(c xiangqi.Coord) xiangqi.Piece {
	if !c.IsValid() {
		return xiangqi.NoPiece
	}
	idx := b.seats[c.Index()]
	if idx == noPiece {
		return xiangqi.NoPiece
	}
	return b.pieces[idx].piece
}

// IsEmpty reports whether the seat at c holds no piece.
func (b *Board) IsEmpty(c xiangqi.Coord) bool {
	return b.seats[c.Index()] == noPiece
}

// KingCoord returns the coordinate of the king of color, and false if the
// king is off the board.
func (b *Board) KingCoord(color xiangqi.Color) (xiangqi.Coord, bool) {
	idx := 0
	if color == xiangqi.Black {
		idx = NumPieces / 2
	}
	seat := b.pieces[idx].seat
	if seat == noSeat {
		return xiangqi.Coord{}, false
	}
	return xiangqi.CoordFromIndex(seat), true
}

// BottomColor returns the colour whose home half is rows 0..4, derived from
// the king positions. Red is assumed when neither king is on the board.
func (b *Board) BottomColor() xiangqi.Color {
	if c, ok := b.KingCoord(xiangqi.Red); ok {
		if c.IsBottomHalf() {
			return xiangqi.Red
		}
		return xiangqi.Black
	}
	if c, ok := b.KingCoord(xiangqi.Black); ok && c.IsBottomHalf() {
		return xiangqi.Black
	}
	return xiangqi.Red
}

// IsBottom reports whether color plays from the bottom half.
func (b *Board) IsBottom(color xiangqi.Color) bool {
	return b.BottomColor() == color
}

// liveCoords returns the coordinates of every on-board piece matching
// color and kind, in arena order. NoKind matches every kind.
func (b *Board) liveCoords(color xiangqi.Color, kind xiangqi.Kind) []xiangqi.Coord {
	var out []xiangqi.Coord
	for i := range b.pieces {
		s := &b.pieces[i]
		if s.seat == noSeat || s.piece.Color != color {
			continue
		}
		if kind != xiangqi.NoKind && s.piece.Kind != kind {
			continue
		}
		out = append(out, xiangqi.CoordFromIndex(s.seat))
	}
	return out
}

// LiveCount returns the number of on-board pieces of color.
func (b *Board) LiveCount(color xiangqi.Color) int {
	return len(b.liveCoords(color, xiangqi.NoKind))
}

// relocate moves arena piece idx to seat, or off the board when seat is
// noSeat. The target seat must be empty.
func (b *Board) relocate(idx, seat int) {
	if old := b.pieces[idx].seat; old != noSeat {
		if b.seats[old] != idx {
			panic(fmt.Sprintf("engine: piece %d claims seat %d held by %d", idx, old, b.seats[old]))
		}
		b.seats[old] = noPiece
	}
	if seat != noSeat {
		if b.seats[seat] != noPiece {
			panic(fmt.Sprintf("engine: relocate piece %d onto occupied seat %d", idx, seat))
		}
		b.seats[seat] = idx
	}
	b.pieces[idx].seat = seat
}

// Do moves the piece on pair.From to pair.To and returns what it took.
// The caller guarantees that pair.From is occupied.
func (b *Board) Do(pair xiangqi.CoordPair) Capture {
	from, to := pair.From.Index(), pair.To.Index()
	idx := b.seats[from]
	if idx == noPiece {
		panic(fmt.Sprintf("engine: move %s from empty seat", pair))
	}
	captured := b.seats[to]
	if captured != noPiece {
		b.relocate(captured, noSeat)
	}
	b.relocate(idx, to)
	return Capture(captured)
}

// Undo reverts a Do of pair, putting back the captured piece.
func (b *Board) Undo(pair xiangqi.CoordPair, captured Capture) {
	from, to := pair.From.Index(), pair.To.Index()
	idx := b.seats[to]
	if idx == noPiece {
		panic(fmt.Sprintf("engine: undo %s onto empty seat", pair))
	}
	b.relocate(idx, from)
	if captured != NoCapture {
		b.relocate(int(captured), to)
	}
}

// String renders the board as ten rows of piece characters, top row first.
func (b *Board) String() string {
	var sb strings.Builder
	chars := b.PieceChars()
	for row := xiangqi.Rows - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d ", row)
		for col := 0; col < xiangqi.Cols; col++ {
			c := chars[row*xiangqi.Cols+col]
			if c == xiangqi.EmptyChar {
				c = '.'
			}
			sb.WriteByte(c)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefghi\n")
	return sb.String()
}
