package hashing

import (
	"testing"

	"github.com/lgbarn/xiangqi-manual-go/internal/engine"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/testutil"
)

func TestZobristHashConsistency(t *testing.T) {
	board1 := engine.NewInitialBoard()
	board2 := engine.NewInitialBoard()

	hash1 := GenerateZobristHash(board1)
	hash2 := GenerateZobristHash(board2)
	if hash1 != hash2 {
		t.Errorf("Identical boards produced different hashes: %x != %x", hash1, hash2)
	}
	if WeakHash(board1) != WeakHash(board2) {
		t.Error("Identical boards produced different weak hashes")
	}
}

func TestZobristHashDifferentPositions(t *testing.T) {
	start := GenerateZobristHash(engine.NewInitialBoard())
	moved, err := engine.NewBoardFromFEN("rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C2C4/9/RNBAKABNR")
	if err != nil {
		t.Fatal(err)
	}
	if GenerateZobristHash(moved) == start {
		t.Error("Different positions produced the same hash")
	}
}

func TestZobristHashTranspositions(t *testing.T) {
	a := testutil.MustBuild(t, "h2e2", "h9g7", "h0g2")
	b := testutil.MustBuild(t, "h0g2", "h9g7", "h2e2")
	if Signature(a).Hash != Signature(b).Hash {
		t.Error("Transposed move orders should reach the same hash")
	}
	if Signature(a).MoveHash == Signature(b).MoveHash {
		t.Error("Different move orders should have different move hashes")
	}
}

func TestSignatureKeepsCursor(t *testing.T) {
	m := testutil.MustBuild(t, "h2e2", "h9g7")
	m.Advance()
	at := m.Current()
	fen := m.Board().FEN()

	sig := Signature(m)
	testutil.AssertEqual(t, sig.MoveCount, 2)
	testutil.AssertTrue(t, m.Current() == at, "cursor restored")
	testutil.AssertEqual(t, m.Board().FEN(), fen)
}

func TestDuplicateDetector(t *testing.T) {
	detector := NewDuplicateDetector(false, 0)
	if detector.CheckAndAdd(testutil.SampleManual(t)) {
		t.Error("First manual was marked as duplicate")
	}
	if !detector.CheckAndAdd(testutil.SampleManual(t)) {
		t.Error("Duplicate manual was not detected")
	}
	testutil.AssertEqual(t, detector.DuplicateCount(), 1)
	testutil.AssertEqual(t, detector.UniqueCount(), 1)
}

func TestDuplicateDetectorExactMatch(t *testing.T) {
	a := testutil.MustBuild(t, "h2e2", "h9g7", "h0g2")
	b := testutil.MustBuild(t, "h0g2", "h9g7", "h2e2")

	loose := NewDuplicateDetector(false, 0)
	loose.CheckAndAdd(a)
	testutil.AssertTrue(t, loose.CheckAndAdd(b), "same final position is a duplicate")

	exact := NewDuplicateDetector(true, 0)
	exact.CheckAndAdd(a)
	testutil.AssertFalse(t, exact.CheckAndAdd(b), "different move order is not an exact duplicate")
	testutil.AssertEqual(t, exact.UniqueCount(), 2)
}

func TestDuplicateDetectorReset(t *testing.T) {
	detector := NewDuplicateDetector(false, 0)
	m := manual.New()
	detector.CheckAndAdd(m)
	detector.CheckAndAdd(m)
	testutil.AssertEqual(t, detector.DuplicateCount(), 1)

	detector.Reset()
	testutil.AssertEqual(t, detector.DuplicateCount(), 0)
	testutil.AssertEqual(t, detector.UniqueCount(), 0)
}

func TestDuplicateDetectorCapacity(t *testing.T) {
	detector := NewDuplicateDetector(false, 1)
	detector.CheckAndAdd(testutil.MustBuild(t, "h2e2"))
	testutil.AssertTrue(t, detector.IsFull())
	testutil.AssertFalse(t, detector.CheckAndAdd(testutil.MustBuild(t, "b2e2")))
	testutil.AssertFalse(t, detector.CheckAndAdd(testutil.MustBuild(t, "b2e2")), "not recorded once full")
	testutil.AssertTrue(t, detector.CheckAndAdd(testutil.MustBuild(t, "h2e2")), "recorded entries still match")
}
