package hashing

import (
	"sync"
	"testing"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/testutil"
)

func TestThreadSafeDuplicateDetector_Concurrent(t *testing.T) {
	detector := NewThreadSafeDuplicateDetector(false, 0)

	const numManuals = 100
	const numWorkers = 10
	perWorker := numManuals / numWorkers

	manuals := make([]*manual.Manual, numManuals)
	for i := range manuals {
		manuals[i] = testutil.MustBuild(t, "h2e2", "h9g7")
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			start := workerID * perWorker
			for j := start; j < start+perWorker; j++ {
				detector.CheckAndAdd(manuals[j])
			}
		}(i)
	}
	wg.Wait()

	testutil.AssertEqual(t, detector.DuplicateCount(), numManuals-1)
	testutil.AssertEqual(t, detector.UniqueCount(), 1)
}

func TestThreadSafeDuplicateDetector_DifferentPositions(t *testing.T) {
	detector := NewThreadSafeDuplicateDetector(true, 0)
	lines := [][]string{
		{"h2e2"}, {"b2e2"}, {"h0g2"}, {"b0c2"}, {"c3c4"}, {"g3g4"},
	}
	manuals := make([]*manual.Manual, len(lines))
	for i, line := range lines {
		manuals[i] = testutil.MustBuild(t, line...)
	}

	var wg sync.WaitGroup
	for _, m := range manuals {
		wg.Add(1)
		go func(m *manual.Manual) {
			defer wg.Done()
			detector.CheckAndAdd(m)
		}(m)
	}
	wg.Wait()

	testutil.AssertEqual(t, detector.DuplicateCount(), 0)
	testutil.AssertEqual(t, detector.UniqueCount(), len(lines))
	testutil.AssertFalse(t, detector.IsFull())
}

func TestThreadSafeDuplicateDetector_MaxCapacity(t *testing.T) {
	detector := NewThreadSafeDuplicateDetector(false, 2)
	for _, line := range []string{"h2e2", "b2e2", "h0g2"} {
		detector.CheckAndAdd(testutil.MustBuild(t, line))
	}
	testutil.AssertTrue(t, detector.IsFull())
	testutil.AssertEqual(t, detector.UniqueCount(), 2)
}

func TestThreadSafeDuplicateDetector_CountsAndReset(t *testing.T) {
	detector := NewThreadSafeDuplicateDetector(true, 0)
	testutil.AssertFalse(t, detector.CheckAndAdd(testutil.SampleManual(t)))
	testutil.AssertTrue(t, detector.CheckAndAdd(testutil.SampleManual(t)))

	unique, dups := detector.Counts()
	testutil.AssertEqual(t, unique, 1)
	testutil.AssertEqual(t, dups, 1)

	detector.Reset()
	unique, dups = detector.Counts()
	testutil.AssertEqual(t, unique, 0)
	testutil.AssertEqual(t, dups, 0)
	testutil.AssertFalse(t, detector.CheckAndAdd(testutil.SampleManual(t)))
}
