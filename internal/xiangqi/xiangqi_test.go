package xiangqi

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	xqerrors "github.com/lgbarn/xiangqi-manual-go/internal/errors"
)

func TestPieceChars(t *testing.T) {
	tests := []struct {
		char  byte
		piece Piece
	}{
		{'K', Piece{Red, King}},
		{'a', Piece{Black, Advisor}},
		{'B', Piece{Red, Bishop}},
		{'n', Piece{Black, Knight}},
		{'R', Piece{Red, Rook}},
		{'c', Piece{Black, Cannon}},
		{'p', Piece{Black, Pawn}},
	}

	for _, tt := range tests {
		t.Run(string(tt.char), func(t *testing.T) {
			got, ok := PieceFromChar(tt.char)
			if !ok || got != tt.piece {
				t.Errorf("PieceFromChar(%q) = %v, %v; want %v", tt.char, got, ok, tt.piece)
			}
			if c := tt.piece.Char(); c != tt.char {
				t.Errorf("Char() = %q; want %q", c, tt.char)
			}
		})
	}

	for _, c := range []byte{'Q', 'e', 'h', '_', '1'} {
		if _, ok := PieceFromChar(c); ok {
			t.Errorf("PieceFromChar(%q) accepted an invalid character", c)
		}
	}
	if NoPiece.Char() != EmptyChar {
		t.Errorf("NoPiece.Char() = %q; want %q", NoPiece.Char(), EmptyChar)
	}
}

func TestColorOpposite(t *testing.T) {
	if Red.Opposite() != Black || Black.Opposite() != Red || NoColor.Opposite() != NoColor {
		t.Error("Opposite() is not an involution over Red/Black")
	}
}

func TestCoordIndex(t *testing.T) {
	for i := 0; i < NumSeats; i++ {
		c := CoordFromIndex(i)
		if !c.IsValid() {
			t.Fatalf("CoordFromIndex(%d) = %v is not valid", i, c)
		}
		if c.Index() != i {
			t.Fatalf("CoordFromIndex(%d).Index() = %d", i, c.Index())
		}
	}
	invalid := []Coord{{-1, 0}, {0, -1}, {10, 0}, {0, 9}}
	for _, c := range invalid {
		if c.IsValid() {
			t.Errorf("%v should be invalid", c)
		}
	}
}

func TestChangeCoordInvolution(t *testing.T) {
	for _, ct := range []ChangeType{MirrorHorizontal, Rotate180, MirrorVertical, ColorExchange} {
		t.Run(ct.String(), func(t *testing.T) {
			for i := 0; i < NumSeats; i++ {
				c := CoordFromIndex(i)
				once := ChangeCoord(c, ct)
				if !once.IsValid() {
					t.Fatalf("ChangeCoord(%v) = %v is off board", c, once)
				}
				if twice := ChangeCoord(once, ct); twice != c {
					t.Fatalf("ChangeCoord twice on %v = %v", c, twice)
				}
			}
		})
	}

	if got := ChangeCoord(NewCoord(0, 1), Rotate180); got != NewCoord(9, 7) {
		t.Errorf("Rotate180(0,1) = %v; want (9,7)", got)
	}
	if got := ChangeCoord(NewCoord(2, 1), MirrorHorizontal); got != NewCoord(2, 7) {
		t.Errorf("MirrorHorizontal(2,1) = %v; want (2,7)", got)
	}
	if got := ChangeCoord(NewCoord(2, 1), MirrorVertical); got != NewCoord(7, 1) {
		t.Errorf("MirrorVertical(2,1) = %v; want (7,1)", got)
	}
}

func TestParseChangeType(t *testing.T) {
	for _, name := range []string{"mirror", "rotate", "exchange", "flip"} {
		ct, err := ParseChangeType(name)
		if err != nil || ct.String() != name {
			t.Errorf("ParseChangeType(%q) = %v, %v", name, ct, err)
		}
	}
	if _, err := ParseChangeType("sideways"); !errors.Is(err, xqerrors.ErrUnsupportedLayout) {
		t.Errorf("ParseChangeType(sideways) error = %v; want ErrUnsupportedLayout", err)
	}
}

func TestRowColsAndICCS(t *testing.T) {
	p := NewCoordPair(2, 7, 2, 4)
	if got := p.RowCols(); got != "2724" {
		t.Errorf("RowCols() = %q; want 2724", got)
	}
	if got := p.ICCS(); got != "h2e2" {
		t.Errorf("ICCS() = %q; want h2e2", got)
	}

	back, err := ParseRowCols("2724")
	if err != nil || back != p {
		t.Errorf("ParseRowCols(2724) = %v, %v", back, err)
	}
	back, err = ParseICCS("H2-E2")
	if err != nil || back != p {
		t.Errorf("ParseICCS(H2-E2) = %v, %v", back, err)
	}

	bad := []string{"", "272", "27a4", "2722", "9999x"}
	for _, s := range bad {
		if _, err := ParseRowCols(s); !errors.Is(err, xqerrors.ErrOutOfRange) {
			t.Errorf("ParseRowCols(%q) error = %v; want ErrOutOfRange", s, err)
		}
	}
	if _, err := ParseICCS("j0a0"); !errors.Is(err, xqerrors.ErrOutOfRange) {
		t.Errorf("ParseICCS(j0a0) error = %v; want ErrOutOfRange", err)
	}
}

func TestInPalace(t *testing.T) {
	tests := []struct {
		coord    Coord
		isBottom bool
		want     bool
	}{
		{NewCoord(0, 4), true, true},
		{NewCoord(2, 3), true, true},
		{NewCoord(3, 4), true, false},
		{NewCoord(1, 2), true, false},
		{NewCoord(9, 4), false, true},
		{NewCoord(7, 5), false, true},
		{NewCoord(6, 5), false, false},
		{NewCoord(0, 4), false, false},
	}
	for _, tt := range tests {
		if got := tt.coord.InPalace(tt.isBottom); got != tt.want {
			t.Errorf("%v.InPalace(%v) = %v; want %v", tt.coord, tt.isBottom, got, tt.want)
		}
	}
}

func TestUnpackInitialFEN(t *testing.T) {
	want := "RNBAKABNR" + "_________" + "_C_____C_" + "P_P_P_P_P" +
		"_________" + "_________" +
		"p_p_p_p_p" + "_c_____c_" + "_________" + "rnbakabnr"
	if diff := cmp.Diff(want, InitialPieceChars); diff != "" {
		t.Errorf("InitialPieceChars mismatch (-want +got):\n%s", diff)
	}
	packed, err := PackPieceChars(InitialPieceChars)
	if err != nil {
		t.Fatal(err)
	}
	if packed != InitialFEN {
		t.Errorf("PackPieceChars() = %q; want %q", packed, InitialFEN)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		InitialFEN,
		"5a3/4ak2r/6R2/8p/9/9/9/B4N2B/4K4/3c5",
		"9/9/9/9/9/9/9/9/9/9",
		"rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR r - - 0 1",
		"3k5/9/9/9/9/9/9/9/9/4K4",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			chars, err := UnpackPieceChars(fen)
			if err != nil {
				t.Fatalf("UnpackPieceChars() error = %v", err)
			}
			if len(chars) != NumSeats {
				t.Fatalf("len = %d; want %d", len(chars), NumSeats)
			}
			packed, err := PackPieceChars(chars)
			if err != nil {
				t.Fatalf("PackPieceChars() error = %v", err)
			}
			again, err := UnpackPieceChars(packed)
			if err != nil {
				t.Fatal(err)
			}
			if again != chars {
				t.Errorf("round trip mismatch:\n got %q\nwant %q", again, chars)
			}
		})
	}
}

func TestFENRoundTripEveryPattern(t *testing.T) {
	// Walk single pieces and runs over every seat.
	for i := 0; i < NumSeats; i++ {
		b := []byte(InitialPieceChars)
		for j := range b {
			if (j+i)%7 == 0 {
				b[j] = EmptyChar
			}
		}
		b[i] = 'c'
		chars := string(b)
		packed, err := PackPieceChars(chars)
		if err != nil {
			t.Fatalf("PackPieceChars(%q) error = %v", chars, err)
		}
		back, err := UnpackPieceChars(packed)
		if err != nil || back != chars {
			t.Fatalf("UnpackPieceChars(PackPieceChars(%q)) = %q, %v", chars, back, err)
		}
	}
}

func TestUnpackInvalid(t *testing.T) {
	bad := []string{
		"",
		"rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9",
		"rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNRR",
		"rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/8/RNBAKABNR",
		"rnbqkabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR",
	}
	for _, fen := range bad {
		if _, err := UnpackPieceChars(fen); !errors.Is(err, xqerrors.ErrInvalidFEN) {
			t.Errorf("UnpackPieceChars(%q) error = %v; want ErrInvalidFEN", fen, err)
		}
	}
	if _, err := PackPieceChars("short"); !errors.Is(err, xqerrors.ErrInvalidFEN) {
		t.Errorf("PackPieceChars(short) error = %v; want ErrInvalidFEN", err)
	}
}

func TestNotationTables(t *testing.T) {
	if PieceName(Piece{Red, Pawn}) != '兵' || PieceName(Piece{Black, Pawn}) != '卒' {
		t.Error("pawn names differ by colour")
	}
	for _, r := range []rune{'車', '馬', '砲', '帥', '將'} {
		if KindFromName(r) == NoKind {
			t.Errorf("KindFromName(%q) = NoKind", r)
		}
	}
	for n := 1; n <= Cols; n++ {
		for _, color := range []Color{Red, Black} {
			got, gotColor, ok := ParseNumChar(NumChar(color, n))
			if !ok || got != n || gotColor != color {
				t.Errorf("ParseNumChar(NumChar(%v, %d)) = %d, %v, %v", color, n, got, gotColor, ok)
			}
		}
	}
	if n, _, ok := ParseNumChar('5'); !ok || n != 5 {
		t.Errorf("ParseNumChar('5') = %d, %v", n, ok)
	}
	if ParseIndexChar('中', 3) != 1 || ParseIndexChar('后', 2) != 1 || ParseIndexChar('四', 5) != 3 {
		t.Error("ParseIndexChar returned the wrong position")
	}
	if ParseIndexChar('中', 2) != -1 {
		t.Error("ParseIndexChar('中', 2) should fail")
	}
	for col := 0; col < Cols; col++ {
		for _, bottom := range []bool{true, false} {
			if ColFromNum(ColNum(col, bottom), bottom) != col {
				t.Errorf("ColFromNum(ColNum(%d, %v)) mismatch", col, bottom)
			}
		}
	}
	if ColNum(7, true) != 2 || ColNum(7, false) != 8 {
		t.Error("ColNum orientation is wrong")
	}
}
