// Package xiangqi provides core Chinese Chess types: colours, piece kinds,
// board coordinates and the character tables used by the notations.
package xiangqi

// Color represents the colour of a piece or player.
type Color int

const (
	Red Color = iota
	Black
	NoColor
)

// String returns the string representation of a colour.
func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Black:
		return "Black"
	default:
		return "None"
	}
}

// Opposite returns the opposite colour.
func (c Color) Opposite() Color {
	switch c {
	case Red:
		return Black
	case Black:
		return Red
	default:
		return NoColor
	}
}

// Kind represents a piece kind.
type Kind int

const (
	NoKind Kind = iota
	King
	Advisor
	Bishop
	Knight
	Rook
	Cannon
	Pawn
	NumKinds
)

var kindNames = [...]string{"None", "King", "Advisor", "Bishop", "Knight", "Rook", "Cannon", "Pawn"}

// String returns the string representation of a kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// kindLetters holds the uppercase FEN letter of each kind.
var kindLetters = [...]byte{'_', 'K', 'A', 'B', 'N', 'R', 'C', 'P'}

// Letter returns the uppercase FEN letter of a kind.
func (k Kind) Letter() byte {
	if k > NoKind && k < NumKinds {
		return kindLetters[k]
	}
	return '?'
}

// IsStrong reports whether several pieces of this kind may share a column
// and need a front/middle/back word in Chinese notation.
func (k Kind) IsStrong() bool {
	switch k {
	case Knight, Rook, Cannon, Pawn:
		return true
	default:
		return false
	}
}

// IsLine reports whether the kind moves along ranks and files, so a
// vertical move is written with a distance instead of a column.
func (k Kind) IsLine() bool {
	switch k {
	case King, Rook, Cannon, Pawn:
		return true
	default:
		return false
	}
}

// KindFromLetter converts a FEN letter (either case) to a kind.
func KindFromLetter(c byte) Kind {
	switch c {
	case 'K', 'k':
		return King
	case 'A', 'a':
		return Advisor
	case 'B', 'b':
		return Bishop
	case 'N', 'n':
		return Knight
	case 'R', 'r':
		return Rook
	case 'C', 'c':
		return Cannon
	case 'P', 'p':
		return Pawn
	default:
		return NoKind
	}
}

// Piece is a coloured piece kind. The zero value is not a piece; use
// NoPiece for an empty seat.
type Piece struct {
	Color Color
	Kind  Kind
}

// NoPiece marks an empty seat.
var NoPiece = Piece{Color: NoColor, Kind: NoKind}

// EmptyChar is the character used for an empty seat in piece-char strings.
const EmptyChar = '_'

// IsNone reports whether p is not a piece.
func (p Piece) IsNone() bool {
	return p.Kind == NoKind
}

// Char returns the FEN character: uppercase for red, lowercase for black.
func (p Piece) Char() byte {
	if p.IsNone() {
		return EmptyChar
	}
	c := p.Kind.Letter()
	if p.Color == Black {
		c += 'a' - 'A'
	}
	return c
}

// PieceFromChar converts a FEN character to a piece.
func PieceFromChar(c byte) (Piece, bool) {
	kind := KindFromLetter(c)
	if kind == NoKind {
		return NoPiece, false
	}
	color := Red
	if c >= 'a' && c <= 'z' {
		color = Black
	}
	return Piece{Color: color, Kind: kind}, true
}

// String returns a readable name such as "Red Cannon".
func (p Piece) String() string {
	if p.IsNone() {
		return "Empty"
	}
	return p.Color.String() + " " + p.Kind.String()
}
