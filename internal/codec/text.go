package codec

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/output"
	"github.com/lgbarn/xiangqi-manual-go/internal/parser"
)

var utf8BOM = []byte("\ufeff")

// textReader returns a UTF-8 reader over data. Input that is not valid
// UTF-8 is taken to be GBK, the encoding of older Chinese record files.
func textReader(data []byte) io.Reader {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return bytes.NewReader(data)
	}
	return transform.NewReader(bytes.NewReader(data), simplifiedchinese.GBK.NewDecoder())
}

// decodeGBK converts GBK bytes to a string. Undecodable input is returned
// as is.
func decodeGBK(b []byte) string {
	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// encodeGBK converts a string to GBK bytes.
func encodeGBK(s string) ([]byte, error) {
	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(s))
	return out, err
}

func parserOptions(o options) []parser.Option {
	return []parser.Option{parser.WithFile(o.file), parser.WithLogger(o.log)}
}

func readICCS(data []byte, o options) (*manual.Manual, error) {
	return parser.Parse(textReader(data), parser.NotationICCS, parserOptions(o)...)
}

func readZh(data []byte, o options) (*manual.Manual, error) {
	return parser.Parse(textReader(data), parser.NotationZh, parserOptions(o)...)
}

func readCC(data []byte, o options) (*manual.Manual, error) {
	return parser.ParseCC(textReader(data), parserOptions(o)...)
}

func writeICCS(w io.Writer, m *manual.Manual, o options) error {
	return output.WriteLinear(w, m, parser.NotationICCS, o.output)
}

func writeZh(w io.Writer, m *manual.Manual, o options) error {
	return output.WriteLinear(w, m, parser.NotationZh, o.output)
}

func writeCC(w io.Writer, m *manual.Manual, _ options) error {
	return output.WriteCC(w, m)
}
