// Package hashing provides position hashing and duplicate detection for
// manuals.
package hashing

import (
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// DuplicateDetector tracks the main lines already seen.
type DuplicateDetector struct {
	hashTable map[uint64][]ManualSignature
	// useExactMatch also compares the main line moves
	useExactMatch  bool
	maxCapacity    int
	entries        int
	duplicateCount int
}

// ManualSignature identifies a manual by its main line.
type ManualSignature struct {
	// Hash is the Zobrist hash of the position at the end of the main line
	Hash uint64
	// WeakHash confirms Hash
	WeakHash uint32
	// MoveCount is the number of plies in the main line
	MoveCount int
	// MoveHash hashes the main line moves in order
	MoveHash uint64
}

// NewDuplicateDetector creates a detector. maxCapacity of 0 means no limit.
func NewDuplicateDetector(exactMatch bool, maxCapacity int) *DuplicateDetector {
	return &DuplicateDetector{
		hashTable:     make(map[uint64][]ManualSignature),
		useExactMatch: exactMatch,
		maxCapacity:   maxCapacity,
	}
}

// Signature computes the signature of m. The cursor is left unchanged.
func Signature(m *manual.Manual) ManualSignature {
	saved := m.Current()
	defer m.JumpTo(saved)

	line := m.MainLine()
	if len(line) > 0 {
		m.JumpTo(line[len(line)-1])
	} else {
		m.BackToRoot()
	}
	return ManualSignature{
		Hash:      GenerateZobristHash(m.Board()),
		WeakHash:  WeakHash(m.Board()),
		MoveCount: len(line),
		MoveHash:  hashMoveSequence(line),
	}
}

// CheckAndAdd reports whether m duplicates a manual seen before, and
// records it if not. Once the detector is full new manuals are checked but
// not recorded.
func (d *DuplicateDetector) CheckAndAdd(m *manual.Manual) bool {
	return d.add(Signature(m))
}

func (d *DuplicateDetector) add(sig ManualSignature) bool {
	for _, existing := range d.hashTable[sig.Hash] {
		if d.signaturesMatch(sig, existing) {
			d.duplicateCount++
			return true
		}
	}
	if d.IsFull() {
		return false
	}
	d.hashTable[sig.Hash] = append(d.hashTable[sig.Hash], sig)
	d.entries++
	return false
}

func (d *DuplicateDetector) signaturesMatch(a, b ManualSignature) bool {
	if a.Hash != b.Hash || a.WeakHash != b.WeakHash {
		return false
	}
	if d.useExactMatch {
		return a.MoveCount == b.MoveCount && a.MoveHash == b.MoveHash
	}
	return true
}

// DuplicateCount returns the number of duplicates detected.
func (d *DuplicateDetector) DuplicateCount() int {
	return d.duplicateCount
}

// UniqueCount returns the number of manuals recorded.
func (d *DuplicateDetector) UniqueCount() int {
	return d.entries
}

// IsFull reports whether the capacity limit has been reached.
func (d *DuplicateDetector) IsFull() bool {
	return d.maxCapacity > 0 && d.entries >= d.maxCapacity
}

// Reset clears the detector.
func (d *DuplicateDetector) Reset() {
	d.hashTable = make(map[uint64][]ManualSignature)
	d.entries = 0
	d.duplicateCount = 0
}

func hashMoveSequence(line []*manual.Move) uint64 {
	var hash uint64
	for _, mv := range line {
		for _, c := range mv.RowCols() {
			hash = hash*31 + uint64(c)
		}
	}
	return hash
}
