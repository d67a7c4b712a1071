package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// XQF layout. The header is 1024 bytes; move records follow it.
const (
	xqfHeaderSize = 1024
	xqfMaxVersion = 18

	xqfOffVersion = 2
	xqfOffKeyMask = 3
	xqfOffKeyOrA  = 8
	xqfOffKeysSum = 12
	xqfOffKeyXY   = 13
	xqfOffKeyXYf  = 14
	xqfOffKeyXYt  = 15
	xqfOffPieces  = 16
	xqfOffResult  = 51
	xqfOffType    = 64

	xqfTagNext   = 0x80
	xqfTagOther  = 0x40
	xqfTagRemark = 0x20

	xqfFromBias = 0x18
	xqfToBias   = 0x20
	xqfOffBoard = 0xFF
	xqfMaxSeat  = 89
)

// xqfPieceSlots gives the piece of each of the 32 placement slots.
const xqfPieceSlots = "RNBAKABNRCCPPPPPrnbakabnrccppppp"

const xqfCopyright = "[(C) Copyright Mr. Dong Shiwei.]"

var (
	xqfResults = []string{"未知", "红胜", "黑胜", "和棋"}
	xqfTypes   = []string{"全局", "开局", "中局", "残局"}

	// Results as written by the linear text grammars.
	xqfResultTokens = map[string]byte{"1-0": 1, "0-1": 2, "1/2-1/2": 3}
)

type xqfField struct {
	key    string
	offset int
	size   int
}

// Pascal strings in the header: a length byte followed by GBK text.
var xqfStringFields = []xqfField{
	{manual.KeyTitle, 80, 64},
	{manual.KeyEvent, 208, 64},
	{manual.KeyDate, 272, 16},
	{manual.KeySite, 288, 16},
	{manual.KeyRed, 304, 16},
	{manual.KeyBlack, 320, 16},
	{manual.KeyOpening, 336, 64},
	{manual.KeyWriter, 464, 16},
	{manual.KeyAuthor, 480, 16},
}

type xqfKeys struct {
	xy, xyf, xyt byte
	rmkSize      int
	f32          [32]byte
}

func xqfCalKey(b, c byte) byte {
	return byte((((((int(b)*int(b))*3+9)*3+8)*2+1)*3 + 8) * int(c))
}

func newXQFKeys(head []byte) xqfKeys {
	var k xqfKeys
	if head[xqfOffVersion] <= 10 {
		return k
	}
	sum, xy, xyf, xyt := head[xqfOffKeysSum], head[xqfOffKeyXY], head[xqfOffKeyXYf], head[xqfOffKeyXYt]
	k.xy = xqfCalKey(xy, xy)
	k.xyf = xqfCalKey(xyf, k.xy)
	k.xyt = xqfCalKey(xyt, k.xyf)
	k.rmkSize = (int(sum)*256+int(xy))%32000 + 767

	mask := head[xqfOffKeyMask]
	or := head[xqfOffKeyOrA : xqfOffKeyOrA+4]
	keyBytes := [4]byte{
		(sum & mask) | or[0],
		(xy & mask) | or[1],
		(xyf & mask) | or[2],
		(xyt & mask) | or[3],
	}
	for i := range k.f32 {
		k.f32[i] = xqfCopyright[i] & keyBytes[i%4]
	}
	return k
}

func formatError(o options, offset int, err error, got string) error {
	return &errors.ParseError{Err: err, File: o.file, Offset: offset, Got: got}
}

func readXQF(data []byte, o options) (*manual.Manual, error) {
	if len(data) < xqfHeaderSize || data[0] != 'X' || data[1] != 'Q' {
		return nil, formatError(o, 0, errors.ErrMalformedFile, "XQF signature")
	}
	head := data[:xqfHeaderSize]
	version := head[xqfOffVersion]
	if head[xqfOffKeysSum]+head[xqfOffKeyXY]+head[xqfOffKeyXYf]+head[xqfOffKeyXYt] != 0 {
		return nil, formatError(o, xqfOffKeysSum, errors.ErrMalformedFile, "key checksum")
	}
	if version > xqfMaxVersion {
		return nil, formatError(o, xqfOffVersion, errors.ErrUnsupportedVersion, "version "+strconv.Itoa(int(version)))
	}
	keys := newXQFKeys(head)
	o.log.Debugw("xqf header", "file", o.file, "version", version,
		"keyXY", keys.xy, "keyXYf", keys.xyf, "keyXYt", keys.xyt, "keyRMKSize", keys.rmkSize)

	fen, err := xqfPlacement(head, keys)
	if err != nil {
		return nil, formatError(o, xqfOffPieces, err, "piece placement")
	}
	m := manual.New(manual.WithLogger(o.log))
	if err := m.SetFEN(fen); err != nil {
		return nil, formatError(o, xqfOffPieces, err, "piece placement")
	}
	for _, f := range xqfStringFields {
		if s := readPascal(head[f.offset : f.offset+f.size]); s != "" {
			m.SetInfo(f.key, s)
		}
	}
	if r := head[xqfOffResult]; int(r) < len(xqfResults) {
		m.SetInfo(manual.KeyResult, xqfResults[r])
	}
	if t := head[xqfOffType]; int(t) < len(xqfTypes) {
		m.SetInfo(manual.KeyType, xqfTypes[t])
	}
	m.SetInfo(manual.KeyVersion, strconv.Itoa(int(version)))

	r := &xqfReader{data: data, pos: xqfHeaderSize, legacy: version <= 10, keys: keys}
	if err := r.readTree(m, o); err != nil {
		return nil, err
	}
	return m, nil
}

// xqfPlacement decodes the 32 placement slots into a FEN placement field.
func xqfPlacement(head []byte, k xqfKeys) (string, error) {
	version := head[xqfOffVersion]
	raw := head[xqfOffPieces : xqfOffPieces+32]
	var seats [32]byte
	for i, b := range raw {
		if version >= 12 {
			seats[(i+int(k.xy)+1)%32] = b
		} else {
			seats[i] = b
		}
	}

	chars := []byte(strings.Repeat(string(rune(xiangqi.EmptyChar)), xiangqi.NumSeats))
	for i, xy := range seats {
		if version > 10 {
			xy -= k.xy
		}
		if xy > xqfMaxSeat {
			continue
		}
		index := xiangqi.NewCoord(int(xy%10), int(xy/10)).Index()
		if chars[index] != xiangqi.EmptyChar {
			return "", fmt.Errorf("two pieces on seat %d: %w", xy, errors.ErrMalformedFile)
		}
		chars[index] = xqfPieceSlots[i]
	}
	return xiangqi.PackPieceChars(string(chars))
}

func readPascal(field []byte) string {
	n := int(field[0])
	if n > len(field)-1 {
		n = len(field) - 1
	}
	return decodeGBK(field[1 : 1+n])
}

type xqfReader struct {
	data   []byte
	pos    int
	legacy bool
	keys   xqfKeys
}

type xqfRecord struct {
	pair   xiangqi.CoordPair
	tag    byte
	remark string
}

// read returns the next n bytes, decrypted.
func (r *xqfReader) read(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	if !r.legacy {
		for i := range out {
			out[i] -= r.keys.f32[(r.pos+i)%32]
		}
	}
	r.pos += n
	return out, nil
}

func (r *xqfReader) record() (xqfRecord, error) {
	var rec xqfRecord
	b, err := r.read(4)
	if err != nil {
		return rec, err
	}
	hasRemark := true
	if r.legacy {
		if b[2]&0xF0 != 0 {
			rec.tag |= xqfTagNext
		}
		if b[2]&0x0F != 0 {
			rec.tag |= xqfTagOther
		}
	} else {
		rec.tag = b[2] & 0xE0
		hasRemark = rec.tag&xqfTagRemark != 0
	}
	if hasRemark {
		sb, err := r.read(4)
		if err != nil {
			return rec, err
		}
		size := int(int32(binary.LittleEndian.Uint32(sb))) - r.keys.rmkSize
		if size > 0 {
			text, err := r.read(size)
			if err != nil {
				return rec, err
			}
			rec.remark = strings.TrimRight(decodeGBK(text), "\x00")
		}
	}

	from := b[0] - xqfFromBias - r.keys.xyf
	to := b[1] - xqfToBias - r.keys.xyt
	rec.pair = xiangqi.NewCoordPair(int(from%10), int(from/10), int(to%10), int(to/10))
	if from > xqfMaxSeat || to > xqfMaxSeat {
		rec.pair = xiangqi.CoordPair{}
	}
	return rec, nil
}

// readTree reads the records in preorder: a node, its next subtree, then
// its variation subtree. The first record belongs to the root.
func (r *xqfReader) readTree(m *manual.Manual, o options) error {
	root, err := r.record()
	if err != nil {
		return formatError(o, r.pos, errors.ErrMalformedFile, "root record")
	}
	m.SetRootRemark(root.remark)

	type frame struct {
		at      *manual.Move
		isOther bool
	}
	var stack []frame
	if root.tag&xqfTagNext != 0 {
		stack = append(stack, frame{at: m.Root()})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		offset := r.pos
		rec, err := r.record()
		if err != nil {
			return formatError(o, offset, errors.ErrMalformedFile, "truncated move record")
		}
		if !rec.pair.IsValid() {
			return formatError(o, offset, errors.ErrMalformedFile, "move coordinates")
		}
		mv, err := m.AppendAfter(f.at, rec.pair, rec.remark, f.isOther)
		if err != nil {
			return formatError(o, offset, err, "move "+rec.pair.ICCS())
		}
		if rec.tag&xqfTagOther != 0 {
			stack = append(stack, frame{at: mv, isOther: true})
		}
		if rec.tag&xqfTagNext != 0 {
			stack = append(stack, frame{at: mv})
		}
	}
	return nil
}

// writeXQF writes a version 18 file with zero keys, which leaves the
// records unencrypted.
func writeXQF(w io.Writer, m *manual.Manual, o options) error {
	head := make([]byte, xqfHeaderSize)
	head[0], head[1], head[xqfOffVersion] = 'X', 'Q', xqfMaxVersion

	seats, err := xqfSeats(m.StartFEN())
	if err != nil {
		return err
	}
	for i := range seats {
		head[xqfOffPieces+i] = seats[(i+1)%32]
	}
	head[xqfOffResult] = xqfResultIndex(m.Info(manual.KeyResult))
	head[xqfOffType] = byte(indexOf(xqfTypes, m.Info(manual.KeyType)))
	for _, f := range xqfStringFields {
		if err := putPascal(head[f.offset:f.offset+f.size], m.Info(f.key)); err != nil {
			return errors.Wrapf(err, "encoding %s", f.key)
		}
	}

	rmkSize := newXQFKeys(head).rmkSize
	var buf bytes.Buffer
	buf.Write(head)
	stack := []*manual.Move{m.Root()}
	for len(stack) > 0 {
		mv := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := writeXQFRecord(&buf, mv, rmkSize); err != nil {
			return err
		}
		if mv.Other() != nil {
			stack = append(stack, mv.Other())
		}
		if mv.Next() != nil {
			stack = append(stack, mv.Next())
		}
	}
	o.log.Debugw("xqf written", "file", o.file, "bytes", buf.Len())
	_, err = w.Write(buf.Bytes())
	return err
}

func writeXQFRecord(buf *bytes.Buffer, mv *manual.Move, rmkSize int) error {
	var tag byte
	if mv.Next() != nil {
		tag |= xqfTagNext
	}
	if mv.Other() != nil {
		tag |= xqfTagOther
	}
	var remark []byte
	if mv.Remark() != "" {
		var err error
		if remark, err = encodeGBK(mv.Remark()); err != nil {
			return errors.Wrapf(err, "encoding remark of %s", mv)
		}
		tag |= xqfTagRemark
	}

	from, to := byte(xqfFromBias), byte(xqfToBias)
	if !mv.IsRoot() {
		p := mv.Pair()
		from += byte(p.From.Col*10 + p.From.Row)
		to += byte(p.To.Col*10 + p.To.Row)
	}
	buf.Write([]byte{from, to, tag, 0})
	if tag&xqfTagRemark != 0 {
		buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(remark)+rmkSize)))
		buf.Write(remark)
	}
	return nil
}

// xqfSeats assigns every piece of the position to a free slot of its
// kind. Unused slots are off the board.
func xqfSeats(fen string) ([32]byte, error) {
	var seats [32]byte
	for i := range seats {
		seats[i] = xqfOffBoard
	}
	chars, err := xiangqi.UnpackPieceChars(fen)
	if err != nil {
		return seats, err
	}
	for index := 0; index < xiangqi.NumSeats; index++ {
		c := chars[index]
		if c == xiangqi.EmptyChar {
			continue
		}
		slot := -1
		for i := 0; i < len(xqfPieceSlots); i++ {
			if xqfPieceSlots[i] == c && seats[i] == xqfOffBoard {
				slot = i
				break
			}
		}
		if slot < 0 {
			return seats, fmt.Errorf("no XQF slot left for piece %c: %w", c, errors.ErrInvalidFEN)
		}
		coord := xiangqi.CoordFromIndex(index)
		seats[slot] = byte(coord.Col*10 + coord.Row)
	}
	return seats, nil
}

func xqfResultIndex(result string) byte {
	if i, ok := xqfResultTokens[result]; ok {
		return i
	}
	return byte(indexOf(xqfResults, result))
}

// indexOf returns the index of s in names, or 0.
func indexOf(names []string, s string) int {
	for i, name := range names {
		if name == s {
			return i
		}
	}
	return 0
}

// putPascal stores s in field, dropping trailing characters that do not fit.
func putPascal(field []byte, s string) error {
	b, err := encodeGBK(s)
	if err != nil {
		return err
	}
	runes := []rune(s)
	for len(b) > len(field)-1 {
		runes = runes[:len(runes)-1]
		if b, err = encodeGBK(string(runes)); err != nil {
			return err
		}
	}
	field[0] = byte(len(b))
	copy(field[1:], b)
	return nil
}
