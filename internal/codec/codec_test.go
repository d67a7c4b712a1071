package codec

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/output"
	"github.com/lgbarn/xiangqi-manual-go/internal/parser"
	"github.com/lgbarn/xiangqi-manual-go/internal/testutil"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

func roundTrip(t *testing.T, m *manual.Manual, f Format) *manual.Manual {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, m, f); err != nil {
		t.Fatalf("Write(%s): %v", f, err)
	}
	got, err := Read(&buf, f)
	if err != nil {
		t.Fatalf("Read(%s): %v", f, err)
	}
	return got
}

func TestRoundTrip(t *testing.T) {
	for _, f := range Formats() {
		t.Run(f.String(), func(t *testing.T) {
			want := testutil.SampleManual(t)
			got := roundTrip(t, want, f)
			testutil.AssertSameTree(t, got, want)
			testutil.AssertEqual(t, got.Info(manual.KeyTitle), "测试棋局")
			testutil.AssertEqual(t, got.Info(manual.KeyRed), "红方")
			testutil.AssertTrue(t, got.Current().IsRoot(), "cursor at root")
		})
	}
}

func TestRoundTripFromFEN(t *testing.T) {
	const fen = "3k5/9/9/9/9/9/9/9/9/4K3R"
	for _, f := range Formats() {
		t.Run(f.String(), func(t *testing.T) {
			want, err := manual.NewFromFEN(fen)
			testutil.AssertNoError(t, err)
			for _, iccs := range []string{"i0i9", "d9d8", "e0e1"} {
				testutil.MustAppend(t, want, iccs, "", false)
			}
			want.BackToRoot()

			got := roundTrip(t, want, f)
			testutil.AssertSameTree(t, got, want)
			got.GoToEnd()
			testutil.AssertEqual(t, got.Board().FEN(), "8R/3k5/9/9/9/9/9/9/4K4/9")
		})
	}
}

func TestRoundTripEmpty(t *testing.T) {
	for _, f := range Formats() {
		t.Run(f.String(), func(t *testing.T) {
			got := roundTrip(t, manual.New(), f)
			testutil.AssertNil(t, got.Root().Next())
			testutil.AssertEqual(t, got.StartFEN(), xiangqi.FullFEN(xiangqi.InitialFEN))
		})
	}
}

func TestRoundTripMultiLineInfo(t *testing.T) {
	const title = "line one\nline two\r\n\"quoted\" \\n"
	for _, f := range []Format{FormatICCS, FormatZh, FormatCC} {
		t.Run(f.String(), func(t *testing.T) {
			want := testutil.SampleManual(t)
			want.SetInfo(manual.KeyTitle, title)
			got := roundTrip(t, want, f)
			testutil.AssertSameTree(t, got, want)
			testutil.AssertEqual(t, got.Info(manual.KeyTitle), title)
			testutil.AssertEqual(t, got.Info(manual.KeyRed), "红方")
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "games/a.xqf", want: FormatXQF},
		{path: "A.XQF", want: FormatXQF},
		{path: "a.bin", want: FormatBIN},
		{path: "a.json", want: FormatJSON},
		{path: "a.pgn_iccs", want: FormatICCS},
		{path: "a.pgn_zh", want: FormatZh},
		{path: "a.pgn_cc", want: FormatCC},
		{path: "a.pgn", wantErr: true},
		{path: "noext", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				testutil.AssertErrorIs(t, err, errors.ErrUnknownFormat)
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
			testutil.AssertEqual(t, got.Extension(), strings.ToLower(filepath.Ext(tt.path)))
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"pgn_zh", ".pgn_zh", "PGN_ZH"} {
		f, err := ParseFormat(name)
		testutil.AssertNoError(t, err, name)
		testutil.AssertEqual(t, f, FormatZh, name)
	}
	_, err := ParseFormat("pdf")
	testutil.AssertErrorIs(t, err, errors.ErrUnknownFormat)
	testutil.AssertTrue(t, FormatCC.IsText() && !FormatXQF.IsText())
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	want := testutil.SampleManual(t)
	for _, f := range Formats() {
		path := filepath.Join(dir, "sample"+f.Extension())
		testutil.AssertNoError(t, WriteFile(path, want), path)
		got, err := ReadFile(path)
		testutil.AssertNoError(t, err, path)
		if got != nil {
			testutil.AssertSameTree(t, got, want, path)
		}
	}

	_, err := ReadFile(filepath.Join(dir, "missing.xqf"))
	testutil.AssertTrue(t, os.IsNotExist(err), "missing file error: %v", err)
}

func TestReadGBKText(t *testing.T) {
	want := testutil.SampleManual(t)
	var buf bytes.Buffer
	testutil.AssertNoError(t, output.WriteLinear(&buf, want, parser.NotationZh, nil))
	gbk, err := encodeGBK(buf.String())
	testutil.AssertNoError(t, err)

	got, err := Read(bytes.NewReader(gbk), FormatZh)
	testutil.AssertNoError(t, err)
	testutil.AssertSameTree(t, got, want)
	testutil.AssertEqual(t, got.Info(manual.KeyBlack), "黑方")
}

func TestReadBOMText(t *testing.T) {
	text := "\ufeff[TITLE \"bom\"]\n\n1. h2e2 h9g7\n"
	m, err := Read(strings.NewReader(text), FormatICCS)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m.Info(manual.KeyTitle), "bom")
	testutil.AssertEqual(t, testutil.LinearICCS(m), "h2e2 h9g7")
}

func validXQF(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	testutil.AssertNoError(t, Write(&buf, testutil.SampleManual(t), FormatXQF))
	return buf.Bytes()
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   func(t *testing.T) []byte
		want   error
	}{
		{
			name:   "xqf signature",
			format: FormatXQF,
			data: func(t *testing.T) []byte {
				b := validXQF(t)
				b[0] = 'Y'
				return b
			},
			want: errors.ErrMalformedFile,
		},
		{
			name:   "xqf short header",
			format: FormatXQF,
			data:   func(t *testing.T) []byte { return []byte("XQ") },
			want:   errors.ErrMalformedFile,
		},
		{
			name:   "xqf checksum",
			format: FormatXQF,
			data: func(t *testing.T) []byte {
				b := validXQF(t)
				b[xqfOffKeyXY] = 1
				return b
			},
			want: errors.ErrMalformedFile,
		},
		{
			name:   "xqf version",
			format: FormatXQF,
			data: func(t *testing.T) []byte {
				b := validXQF(t)
				b[xqfOffVersion] = 19
				return b
			},
			want: errors.ErrUnsupportedVersion,
		},
		{
			name:   "xqf truncated records",
			format: FormatXQF,
			data: func(t *testing.T) []byte {
				b := validXQF(t)
				return b[:len(b)-3]
			},
			want: errors.ErrMalformedFile,
		},
		{
			name:   "bin tag",
			format: FormatBIN,
			data:   func(t *testing.T) []byte { return []byte("\x0alearnchesz\x00") },
			want:   errors.ErrMalformedFile,
		},
		{
			name:   "bin seat out of range",
			format: FormatBIN,
			data:   func(t *testing.T) []byte { return []byte("\x0alearnchess\x80\x5a\x00\x00") },
			want:   errors.ErrOutOfRange,
		},
		{
			name:   "bin illegal move",
			format: FormatBIN,
			data:   func(t *testing.T) []byte { return []byte("\x0alearnchess\x80\x00\x0a\x00") },
			want:   errors.ErrInvalidMove,
		},
		{
			name:   "json syntax",
			format: FormatJSON,
			data:   func(t *testing.T) []byte { return []byte(`{"info":`) },
			want:   errors.ErrMalformedFile,
		},
		{
			name:   "json illegal move",
			format: FormatJSON,
			data:   func(t *testing.T) []byte { return []byte(`{"info":{},"n":{"m":"0011"}}`) },
			want:   errors.ErrInvalidMove,
		},
		{
			name:   "json bad rowcols",
			format: FormatJSON,
			data:   func(t *testing.T) []byte { return []byte(`{"info":{},"n":{"m":"00x1"}}`) },
			want:   errors.ErrOutOfRange,
		},
		{
			name:   "iccs grammar",
			format: FormatICCS,
			data:   func(t *testing.T) []byte { return []byte("1. h2e2 ( h9g7\n") },
			want:   errors.ErrMalformedFile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Read(bytes.NewReader(tt.data(t)), tt.format, WithFile(tt.name))
			testutil.AssertNil(t, m)
			testutil.AssertErrorIs(t, err, tt.want)
		})
	}
}

func TestBINMoveRecord(t *testing.T) {
	// Seat 0 is a0, seat 9 is a1.
	legal := []byte("\x0alearnchess\x80\x00\x09\x00")
	m, err := Read(bytes.NewReader(legal), FormatBIN)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, testutil.LinearICCS(m), "a0a1")
}

func TestWriteXQFUnencodableRemark(t *testing.T) {
	m := testutil.MustBuild(t, "h2e2")
	m.Advance()
	m.SetRemark("\U0001F600")
	err := Write(&bytes.Buffer{}, m, FormatXQF)
	testutil.AssertError(t, err)
}

// encryptXQF re-keys an unencrypted version 18 file with the given key
// bytes, producing what an encrypting writer would have stored.
func encryptXQF(t *testing.T, plain []byte, keyXY, keyXYf, keyXYt byte) []byte {
	t.Helper()
	data := append([]byte(nil), plain...)
	head := data[:xqfHeaderSize]
	head[xqfOffKeyXY], head[xqfOffKeyXYf], head[xqfOffKeyXYt] = keyXY, keyXYf, keyXYt
	head[xqfOffKeysSum] = -(keyXY + keyXYf + keyXYt)
	head[xqfOffKeyMask] = 0xA5
	copy(head[xqfOffKeyOrA:], []byte{0x11, 0x22, 0x33, 0x44})
	k := newXQFKeys(head)

	var seats [32]byte
	raw := head[xqfOffPieces : xqfOffPieces+32]
	for i := range raw {
		seats[(i+1)%32] = raw[i] + k.xy
	}
	stored := make([]byte, 32)
	for i := range stored {
		stored[i] = seats[(i+int(k.xy)+1)%32]
	}
	copy(raw, stored)

	for pos := xqfHeaderSize; pos < len(data); {
		data[pos] += k.xyf
		data[pos+1] += k.xyt
		tag := data[pos+2]
		pos += 4
		if tag&xqfTagRemark != 0 {
			size := int(binary.LittleEndian.Uint32(data[pos:])) - 767
			binary.LittleEndian.PutUint32(data[pos:], uint32(size+k.rmkSize))
			pos += 4 + size
		}
	}
	for pos := xqfHeaderSize; pos < len(data); pos++ {
		data[pos] += k.f32[pos%32]
	}
	return data
}

func TestReadEncryptedXQF(t *testing.T) {
	want := testutil.SampleManual(t)
	var buf bytes.Buffer
	testutil.AssertNoError(t, Write(&buf, want, FormatXQF))

	for _, keys := range [][3]byte{{0x35, 0x81, 0x12}, {0xFE, 0x01, 0x7C}} {
		data := encryptXQF(t, buf.Bytes(), keys[0], keys[1], keys[2])
		got, err := Read(bytes.NewReader(data), FormatXQF)
		testutil.AssertNoError(t, err, "keys %v", keys)
		if got != nil {
			testutil.AssertSameTree(t, got, want, "keys %v", keys)
		}
	}
}

func TestReadLegacyXQF(t *testing.T) {
	head := make([]byte, xqfHeaderSize)
	head[0], head[1], head[xqfOffVersion] = 'X', 'Q', 10
	seats, err := xqfSeats(xiangqi.InitialFEN)
	testutil.AssertNoError(t, err)
	copy(head[xqfOffPieces:], seats[:])
	head[xqfOffResult] = 2
	copy(head[80:], append([]byte{4}, "demo"...))

	var buf bytes.Buffer
	buf.Write(head)
	// Root: next bit in the high nibble, empty remark.
	buf.Write([]byte{0x18, 0x20, 0xF0, 0, 0, 0, 0, 0})
	// h2e2 with a remark and a variation h2d2. The low nibble marks the
	// variation.
	buf.Write([]byte{0x18 + 72, 0x20 + 42, 0x0F, 0, 2, 0, 0, 0, 'h', 'i'})
	buf.Write([]byte{0x18 + 72, 0x20 + 32, 0x00, 0, 0, 0, 0, 0})

	m, err := Read(&buf, FormatXQF)
	testutil.AssertNoError(t, err)
	if m == nil {
		return
	}
	testutil.AssertEqual(t, testutil.LinearICCS(m), "h2e2 ( h2d2 )")
	testutil.AssertEqual(t, m.Root().Next().Remark(), "hi")
	testutil.AssertEqual(t, m.Info(manual.KeyTitle), "demo")
	testutil.AssertEqual(t, m.Info(manual.KeyResult), "黑胜")
	testutil.AssertEqual(t, m.Info(manual.KeyVersion), "10")
}

func TestXQFResultMapping(t *testing.T) {
	m := testutil.MustBuild(t, "h2e2")
	m.SetInfo(manual.KeyResult, "1-0")
	m.SetInfo(manual.KeyType, "残局")
	got := roundTrip(t, m, FormatXQF)
	testutil.AssertEqual(t, got.Info(manual.KeyResult), "红胜")
	testutil.AssertEqual(t, got.Info(manual.KeyType), "残局")
}

func TestJSONShape(t *testing.T) {
	m := testutil.MustBuild(t, "h2e2", "h9g7")
	var buf bytes.Buffer
	testutil.AssertNoError(t, Write(&buf, m, FormatJSON))
	testutil.AssertContains(t, buf.String(), `"n":{"m":"2724","n":{"m":"9776"}}`)
}
