// Package export writes manuals as flat move rows in Parquet files for
// offline analysis.
package export

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// MoveRow is one node of a move tree. Node numbers are preorder positions
// starting at 1; parent 0 is the starting position.
type MoveRow struct {
	ManualID    string `parquet:"name=manual_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Node        int32  `parquet:"name=node, type=INT32"`
	Parent      int32  `parquet:"name=parent, type=INT32"`
	Ply         int32  `parquet:"name=ply, type=INT32"`
	IsVariation bool   `parquet:"name=is_variation, type=BOOLEAN"`
	Column      int32  `parquet:"name=column, type=INT32"`
	ICCS        string `parquet:"name=iccs, type=BYTE_ARRAY, convertedtype=UTF8"`
	Zh          string `parquet:"name=zh, type=BYTE_ARRAY, convertedtype=UTF8"`
	Mover       string `parquet:"name=mover, type=BYTE_ARRAY, convertedtype=UTF8"`
	Captured    string `parquet:"name=captured, type=BYTE_ARRAY, convertedtype=UTF8"`
	FEN         string `parquet:"name=fen, type=BYTE_ARRAY, convertedtype=UTF8"`
	Remark      string `parquet:"name=remark, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Rows flattens the tree of m into rows tagged with id. FEN is the position
// the move is played from.
func Rows(id string, m *manual.Manual) ([]MoveRow, error) {
	moves := m.Moves()
	nodes := make(map[*manual.Move]int32, len(moves))
	for i, mv := range moves {
		nodes[mv] = int32(i + 1)
	}

	rows := make([]MoveRow, 0, len(moves))
	err := m.WalkBoard(func(mv *manual.Move) error {
		board := m.Board()
		node := nodes[mv]

		row := MoveRow{
			ManualID:    id,
			Node:        node,
			Parent:      nodes[mv.Parent()],
			Ply:         int32(mv.NextNo()),
			IsVariation: mv.IsOther(),
			Column:      int32(mv.CCColNo()),
			ICCS:        mv.ICCS(),
			Zh:          mv.Zh(),
			Mover:       board.At(mv.Pair().From).Color.String(),
			FEN:         board.FEN(),
			Remark:      mv.Remark(),
		}
		if p := board.At(mv.Pair().To); !p.IsNone() {
			row.Captured = string(p.Char())
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

func compressionCodec(name string) (parquet.CompressionCodec, error) {
	switch name {
	case "snappy", "":
		return parquet.CompressionCodec_SNAPPY, nil
	case "gzip":
		return parquet.CompressionCodec_GZIP, nil
	case "none":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return 0, fmt.Errorf("compression %q: %w", name, errors.ErrInvalidConfig)
	}
}

// Writer appends manuals to one Parquet file. It is safe for concurrent
// use.
type Writer struct {
	mu   sync.Mutex
	file source.ParquetFile
	pw   *writer.ParquetWriter
	rows int
}

// NewWriter creates the Parquet file at cfg.ParquetPath.
func NewWriter(cfg *config.ExportConfig) (*Writer, error) {
	codec, err := compressionCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}
	parallel := cfg.Parallel
	if parallel < 1 {
		parallel = 1
	}

	file, err := local.NewLocalFileWriter(cfg.ParquetPath)
	if err != nil {
		return nil, err
	}
	pw, err := writer.NewParquetWriter(file, new(MoveRow), parallel)
	if err != nil {
		file.Close()
		return nil, err
	}
	pw.CompressionType = codec
	return &Writer{file: file, pw: pw}, nil
}

// Add writes every node of m.
func (w *Writer) Add(id string, m *manual.Manual) error {
	rows, err := Rows(id, m)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, row := range rows {
		if err := w.pw.Write(row); err != nil {
			return errors.Wrapf(err, "writing row %d of %s", row.Node, id)
		}
	}
	w.rows += len(rows)
	return nil
}

// Rows returns the number of rows written so far.
func (w *Writer) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Close flushes the footer and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.pw.WriteStop(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// ReadRows reads every row of a Parquet file written by Writer.
func ReadRows(path string, parallel int64) ([]MoveRow, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	file, err := local.NewLocalFileReader(absPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	pr, err := reader.NewParquetReader(file, new(MoveRow), parallel)
	if err != nil {
		return nil, err
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	rows := make([]MoveRow, 0, num)
	batchSize := 1024
	for offset := 0; offset < num; offset += batchSize {
		if remain := num - offset; remain < batchSize {
			batchSize = remain
		}
		batch := make([]MoveRow, batchSize)
		if err := pr.Read(&batch); err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}
