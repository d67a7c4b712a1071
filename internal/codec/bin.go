package codec

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// binTag starts every BIN file.
const binTag = "learnchess"

// Flag bits of the byte after the file tag. Node tags reuse the XQF bits.
const (
	binHasInfo   = 0x10
	binHasRemark = 0x20
	binHasNext   = 0x80
)

type binWriter struct {
	buf bytes.Buffer
}

func (w *binWriter) string(s string) {
	w.buf.Write(binary.AppendUvarint(nil, uint64(len(s))))
	w.buf.WriteString(s)
}

func writeBIN(w io.Writer, m *manual.Manual, o options) error {
	var bw binWriter
	bw.string(binTag)

	info := m.InfoMap()
	root := m.Root()
	var flag byte
	if len(info) > 0 {
		flag |= binHasInfo
	}
	if root.Remark() != "" {
		flag |= binHasRemark
	}
	if root.Next() != nil {
		flag |= binHasNext
	}
	bw.buf.WriteByte(flag)

	if flag&binHasInfo != 0 {
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		bw.buf.Write(binary.AppendUvarint(nil, uint64(len(keys))))
		for _, k := range keys {
			bw.string(k)
			bw.string(info[k])
		}
	}
	if flag&binHasRemark != 0 {
		bw.string(root.Remark())
	}

	var stack []*manual.Move
	if root.Next() != nil {
		stack = append(stack, root.Next())
	}
	for len(stack) > 0 {
		mv := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var tag byte
		if mv.Next() != nil {
			tag |= xqfTagNext
		}
		if mv.Other() != nil {
			tag |= xqfTagOther
		}
		if mv.Remark() != "" {
			tag |= xqfTagRemark
		}
		p := mv.Pair()
		bw.buf.Write([]byte{byte(p.From.Index()), byte(p.To.Index()), tag})
		if tag&xqfTagRemark != 0 {
			bw.string(mv.Remark())
		}

		if mv.Other() != nil {
			stack = append(stack, mv.Other())
		}
		if mv.Next() != nil {
			stack = append(stack, mv.Next())
		}
	}
	o.log.Debugw("bin written", "file", o.file, "bytes", bw.buf.Len())
	_, err := w.Write(bw.buf.Bytes())
	return err
}

type binReader struct {
	r    *bytes.Reader
	size int
}

func (r *binReader) offset() int {
	return r.size - r.r.Len()
}

func (r *binReader) string() (string, error) {
	n, err := binary.ReadUvarint(r.r)
	if err != nil {
		return "", err
	}
	if n > uint64(r.r.Len()) {
		return "", io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func readBIN(data []byte, o options) (*manual.Manual, error) {
	r := &binReader{r: bytes.NewReader(data), size: len(data)}
	fail := func(err error, got string) (*manual.Manual, error) {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = errors.ErrMalformedFile
		}
		return nil, formatError(o, r.offset(), err, got)
	}

	if tag, err := r.string(); err != nil || tag != binTag {
		return fail(errors.ErrMalformedFile, "BIN file tag")
	}
	flag, err := r.r.ReadByte()
	if err != nil {
		return fail(err, "BIN flags")
	}

	m := manual.New(manual.WithLogger(o.log))
	if flag&binHasInfo != 0 {
		count, err := binary.ReadUvarint(r.r)
		if err != nil {
			return fail(err, "info count")
		}
		info := make(map[string]string)
		for i := uint64(0); i < count; i++ {
			k, err := r.string()
			if err != nil {
				return fail(err, "info key")
			}
			v, err := r.string()
			if err != nil {
				return fail(err, "info value")
			}
			info[k] = v
		}
		if err := m.SetInfoMap(info); err != nil {
			return fail(err, "FEN")
		}
	}
	if flag&binHasRemark != 0 {
		remark, err := r.string()
		if err != nil {
			return fail(err, "root remark")
		}
		m.SetRootRemark(remark)
	}

	type frame struct {
		at      *manual.Move
		isOther bool
	}
	var stack []frame
	if flag&binHasNext != 0 {
		stack = append(stack, frame{at: m.Root()})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var rec [3]byte
		if _, err := io.ReadFull(r.r, rec[:]); err != nil {
			return fail(err, "move record")
		}
		if rec[0] >= xiangqi.NumSeats || rec[1] >= xiangqi.NumSeats {
			return fail(errors.ErrOutOfRange, "move coordinates")
		}
		var remark string
		if rec[2]&xqfTagRemark != 0 {
			if remark, err = r.string(); err != nil {
				return fail(err, "move remark")
			}
		}
		pair := xiangqi.CoordPair{
			From: xiangqi.CoordFromIndex(int(rec[0])),
			To:   xiangqi.CoordFromIndex(int(rec[1])),
		}
		mv, err := m.AppendAfter(f.at, pair, remark, f.isOther)
		if err != nil {
			return fail(err, "move "+pair.ICCS())
		}
		if rec[2]&xqfTagOther != 0 {
			stack = append(stack, frame{at: mv, isOther: true})
		}
		if rec[2]&xqfTagNext != 0 {
			stack = append(stack, frame{at: mv})
		}
	}
	if r.r.Len() != 0 {
		return fail(errors.ErrMalformedFile, "trailing data")
	}
	return m, nil
}
