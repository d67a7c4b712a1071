package xiangqi

// Character tables used by the Chinese move notation. Every move text is
// exactly four runes: two identifying the piece, one direction word and one
// numeral.

var redNames = [NumKinds]rune{0, '帅', '仕', '相', '马', '车', '炮', '兵'}
var blackNames = [NumKinds]rune{0, '将', '士', '象', '马', '车', '炮', '卒'}

// nameAliases maps traditional or variant glyphs to their kind.
var nameAliases = map[rune]Kind{
	'帥': King, '將': King,
	'仕': Advisor, '士': Advisor,
	'相': Bishop, '象': Bishop,
	'马': Knight, '馬': Knight, '傌': Knight,
	'车': Rook, '車': Rook, '俥': Rook,
	'炮': Cannon, '砲': Cannon, '包': Cannon,
	'兵': Pawn, '卒': Pawn,
	'帅': King, '将': King,
}

var redNums = [Cols]rune{'一', '二', '三', '四', '五', '六', '七', '八', '九'}
var blackNums = [Cols]rune{'１', '２', '３', '４', '５', '６', '７', '８', '９'}

// Direction words.
const (
	Forward  = '进'
	Backward = '退'
	Sideways = '平'
)

// Position words for several pieces of one kind on one column.
var (
	twoIndexChars   = []rune{'前', '后'}
	threeIndexChars = []rune{'前', '中', '后'}
	manyIndexChars  = []rune{'一', '二', '三', '四', '五'}
)

// PieceName returns the Chinese name of a piece.
func PieceName(p Piece) rune {
	if p.IsNone() {
		return 0
	}
	if p.Color == Black {
		return blackNames[p.Kind]
	}
	return redNames[p.Kind]
}

// KindFromName converts a Chinese piece name (including common variant
// glyphs) to a kind.
func KindFromName(r rune) Kind {
	if k, ok := nameAliases[r]; ok {
		return k
	}
	return NoKind
}

// NumChar returns the numeral for n (1..9) in the style of color.
func NumChar(color Color, n int) rune {
	if n < 1 || n > Cols {
		return '?'
	}
	if color == Black {
		return blackNums[n-1]
	}
	return redNums[n-1]
}

// ParseNumChar converts a numeral back to its value and the colour whose
// style it is written in. ASCII digits are read as black numerals.
func ParseNumChar(r rune) (int, Color, bool) {
	for i, c := range redNums {
		if c == r {
			return i + 1, Red, true
		}
	}
	for i, c := range blackNums {
		if c == r {
			return i + 1, Black, true
		}
	}
	if r >= '1' && r <= '9' {
		return int(r - '0'), Black, true
	}
	return 0, NoColor, false
}

// IsMoveChar reports whether r is one of the three direction words.
func IsMoveChar(r rune) bool {
	return r == Forward || r == Backward || r == Sideways
}

// IndexChars returns the position words for count pieces on one column,
// ordered front to back.
func IndexChars(count int) []rune {
	switch {
	case count == 2:
		return twoIndexChars
	case count == 3:
		return threeIndexChars
	default:
		return manyIndexChars[:count]
	}
}

// ParseIndexChar returns the front-to-back position of r among count
// pieces, or -1.
func ParseIndexChar(r rune, count int) int {
	if count < 2 || count > len(manyIndexChars) {
		return -1
	}
	for i, c := range IndexChars(count) {
		if c == r {
			return i
		}
	}
	return -1
}

// ColNum is the column numeral value seen by the side owning the bottom
// (isBottom) or top half: bottom counts from its right, top from its left.
func ColNum(col int, isBottom bool) int {
	if isBottom {
		return Cols - col
	}
	return col + 1
}

// ColFromNum inverts ColNum.
func ColFromNum(num int, isBottom bool) int {
	if isBottom {
		return Cols - num
	}
	return num - 1
}
