package xiangqi

import (
	"fmt"
	"strings"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
)

// InitialFEN is the piece-placement field of the standard starting position.
const InitialFEN = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR"

// InitialPieceChars is the 90-char occupancy string of the starting position.
var InitialPieceChars = mustUnpack(InitialFEN)

// fenSuffix follows the placement field in a full FEN string.
const fenSuffix = " r - - 0 1"

func mustUnpack(fen string) string {
	s, err := UnpackPieceChars(fen)
	if err != nil {
		panic(err)
	}
	return s
}

// PackPieceChars converts a 90-char occupancy string (row 0 first, '_' for
// empty seats) to a FEN placement field (top row first, runs of empty seats
// as digits).
func PackPieceChars(pieceChars string) (string, error) {
	if len(pieceChars) != NumSeats {
		return "", fmt.Errorf("occupancy string has %d chars: %w", len(pieceChars), errors.ErrInvalidFEN)
	}

	var sb strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < Cols; col++ {
			c := pieceChars[row*Cols+col]
			if c == EmptyChar {
				empty++
				continue
			}
			if _, ok := PieceFromChar(c); !ok {
				return "", fmt.Errorf("invalid piece character %q: %w", c, errors.ErrInvalidFEN)
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(c)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String(), nil
}

// UnpackPieceChars converts a FEN placement field back to a 90-char
// occupancy string. Anything after the first space is ignored.
func UnpackPieceChars(fen string) (string, error) {
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		fen = fen[:i]
	}
	rows := strings.Split(fen, "/")
	if len(rows) != Rows {
		return "", fmt.Errorf("FEN has %d rows: %w", len(rows), errors.ErrInvalidFEN)
	}

	out := make([]byte, NumSeats)
	for i, text := range rows {
		row := Rows - 1 - i
		col := 0
		for j := 0; j < len(text); j++ {
			c := text[j]
			switch {
			case c >= '1' && c <= '9':
				for n := 0; n < int(c-'0'); n++ {
					if col >= Cols {
						return "", fmt.Errorf("FEN row %q too long: %w", text, errors.ErrInvalidFEN)
					}
					out[row*Cols+col] = EmptyChar
					col++
				}
			default:
				if _, ok := PieceFromChar(c); !ok {
					return "", fmt.Errorf("invalid piece character %q: %w", c, errors.ErrInvalidFEN)
				}
				if col >= Cols {
					return "", fmt.Errorf("FEN row %q too long: %w", text, errors.ErrInvalidFEN)
				}
				out[row*Cols+col] = c
				col++
			}
		}
		if col != Cols {
			return "", fmt.Errorf("FEN row %q has %d columns: %w", text, col, errors.ErrInvalidFEN)
		}
	}
	return string(out), nil
}

// FullFEN appends the side-to-move and counters to a placement field.
func FullFEN(placement string) string {
	return placement + fenSuffix
}
