package hashing

import (
	"sync"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// ThreadSafeDuplicateDetector guards a DuplicateDetector for use by the
// batch workers.
type ThreadSafeDuplicateDetector struct {
	mu       sync.RWMutex
	detector *DuplicateDetector
}

// NewThreadSafeDuplicateDetector creates a shared detector. A maxCapacity
// of 0 means unlimited.
func NewThreadSafeDuplicateDetector(exactMatch bool, maxCapacity int) *ThreadSafeDuplicateDetector {
	return &ThreadSafeDuplicateDetector{detector: NewDuplicateDetector(exactMatch, maxCapacity)}
}

// CheckAndAdd reports whether m repeats a manual already seen and records
// it otherwise. The signature walks m's tree outside the lock, so m must
// belong to the calling goroutine.
func (d *ThreadSafeDuplicateDetector) CheckAndAdd(m *manual.Manual) bool {
	sig := Signature(m)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detector.add(sig)
}

// Counts returns the number of unique manuals recorded and duplicates
// found, read under one lock.
func (d *ThreadSafeDuplicateDetector) Counts() (unique, duplicates int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.detector.UniqueCount(), d.detector.DuplicateCount()
}

// DuplicateCount returns the number of duplicates found.
func (d *ThreadSafeDuplicateDetector) DuplicateCount() int {
	_, dups := d.Counts()
	return dups
}

// UniqueCount returns the number of manuals recorded.
func (d *ThreadSafeDuplicateDetector) UniqueCount() int {
	unique, _ := d.Counts()
	return unique
}

// IsFull reports whether new manuals are no longer recorded.
func (d *ThreadSafeDuplicateDetector) IsFull() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.detector.IsFull()
}

// Reset forgets every recorded manual.
func (d *ThreadSafeDuplicateDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Reset()
}
