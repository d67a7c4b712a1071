package engine

import (
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// NewBoardFromFEN creates a board from a FEN placement field (a full FEN
// string is accepted; the trailing fields are ignored).
func NewBoardFromFEN(fen string) (*Board, error) {
	chars, err := xiangqi.UnpackPieceChars(fen)
	if err != nil {
		return nil, err
	}
	b := NewBoard()
	if err := b.SetPieceChars(chars); err != nil {
		return nil, err
	}
	return b, nil
}

// FEN returns the FEN placement field of the board.
func (b *Board) FEN() string {
	fen, err := xiangqi.PackPieceChars(b.PieceChars())
	if err != nil {
		// PieceChars only ever emits valid characters.
		panic(err)
	}
	return fen
}

// FullFEN returns the FEN string with side-to-move and counters.
func (b *Board) FullFEN() string {
	return xiangqi.FullFEN(b.FEN())
}
