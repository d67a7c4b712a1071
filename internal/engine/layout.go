package engine

import (
	"fmt"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// ChangeLayout applies a layout transform to the board. MirrorHorizontal
// and Rotate180 move every piece to the transformed seat; ColorExchange
// swaps every piece with its counterpart of the other colour. Each is its
// own inverse.
func (b *Board) ChangeLayout(ct xiangqi.ChangeType) error {
	switch ct {
	case xiangqi.NoChange:
		return nil
	case xiangqi.MirrorHorizontal, xiangqi.Rotate180:
		b.moveAll(ct)
		return nil
	case xiangqi.ColorExchange:
		b.exchangeColors()
		return nil
	default:
		return fmt.Errorf("board %s: %w", ct, errors.ErrUnsupportedLayout)
	}
}

func (b *Board) moveAll(ct xiangqi.ChangeType) {
	var targets [NumPieces]int
	for i := range b.pieces {
		targets[i] = noSeat
		if seat := b.pieces[i].seat; seat != noSeat {
			targets[i] = xiangqi.ChangeCoord(xiangqi.CoordFromIndex(seat), ct).Index()
			b.relocate(i, noSeat)
		}
	}
	for i, seat := range targets {
		if seat != noSeat {
			b.relocate(i, seat)
		}
	}
}

func (b *Board) exchangeColors() {
	half := NumPieces / 2
	for i := 0; i < half; i++ {
		red, black := b.pieces[i].seat, b.pieces[i+half].seat
		if red != noSeat {
			b.relocate(i, noSeat)
		}
		if black != noSeat {
			b.relocate(i+half, noSeat)
		}
		if black != noSeat {
			b.relocate(i, black)
		}
		if red != noSeat {
			b.relocate(i+half, red)
		}
	}
}

// MisplacedPieces returns the coordinates of pieces standing where their
// kind may never stand, such as a bishop across the river.
func (b *Board) MisplacedPieces() []xiangqi.Coord {
	var out []xiangqi.Coord
	for i := range b.pieces {
		s := &b.pieces[i]
		if s.seat == noSeat {
			continue
		}
		c := xiangqi.CoordFromIndex(s.seat)
		if !IsPlacementValid(s.piece.Kind, b.IsBottom(s.piece.Color), c) {
			out = append(out, c)
		}
	}
	return out
}
