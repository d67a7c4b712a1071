package export

import (
	"path/filepath"
	"testing"

	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/testutil"
)

func TestRows(t *testing.T) {
	m := testutil.SampleManual(t)
	rows, err := Rows("sample", m)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(rows), 6)

	// Preorder: h2e2 h9g7 g3g4 b9c7 b2e2 b9c7.
	var iccs []string
	for _, r := range rows {
		iccs = append(iccs, r.ICCS)
	}
	testutil.AssertEqual(t, iccs, []string{"h2e2", "h9g7", "g3g4", "b9c7", "b2e2", "b9c7"})

	first := rows[0]
	testutil.AssertEqual(t, first.Node, int32(1))
	testutil.AssertEqual(t, first.Parent, int32(0))
	testutil.AssertEqual(t, first.Ply, int32(1))
	testutil.AssertEqual(t, first.Mover, "Red")
	testutil.AssertEqual(t, first.Zh, "炮二平五")
	testutil.AssertEqual(t, first.FEN, "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR")
	testutil.AssertEqual(t, first.Remark, "central cannon")

	knightVariation := rows[3]
	testutil.AssertTrue(t, knightVariation.IsVariation)
	testutil.AssertEqual(t, knightVariation.Parent, int32(1))
	testutil.AssertEqual(t, knightVariation.Mover, "Black")

	cannonVariation := rows[4]
	testutil.AssertTrue(t, cannonVariation.IsVariation)
	testutil.AssertEqual(t, cannonVariation.Parent, int32(0))
	testutil.AssertEqual(t, rows[5].Parent, int32(5))
	testutil.AssertTrue(t, m.Current().IsRoot(), "cursor restored")
}

func TestRowsCapture(t *testing.T) {
	m := testutil.MustBuild(t, "h2e2", "h9g7", "e2e6")
	rows, err := Rows("capture", m)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, rows[2].Captured, "p")
	testutil.AssertEqual(t, rows[0].Captured, "")
}

func TestWriterRoundTrip(t *testing.T) {
	for _, compression := range []string{"snappy", "gzip", "none"} {
		t.Run(compression, func(t *testing.T) {
			cfg := config.NewExportConfig()
			cfg.ParquetPath = filepath.Join(t.TempDir(), "moves.parquet")
			cfg.Compression = compression
			cfg.Parallel = 1

			w, err := NewWriter(cfg)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			testutil.AssertNoError(t, w.Add("a", testutil.SampleManual(t)))
			testutil.AssertNoError(t, w.Add("b", testutil.MustBuild(t, "h2e2", "h9g7")))
			testutil.AssertEqual(t, w.Rows(), 8)
			testutil.AssertNoError(t, w.Close())

			rows, err := ReadRows(cfg.ParquetPath, 1)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, len(rows), 8)
			if len(rows) == 8 {
				testutil.AssertEqual(t, rows[0].ManualID, "a")
				testutil.AssertEqual(t, rows[6].ManualID, "b")
				testutil.AssertEqual(t, rows[3].Remark, "the other knight, 另一马")
			}
		})
	}
}

func TestNewWriterBadCompression(t *testing.T) {
	cfg := config.NewExportConfig()
	cfg.ParquetPath = filepath.Join(t.TempDir(), "x.parquet")
	cfg.Compression = "lzma"
	_, err := NewWriter(cfg)
	testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig)
}
