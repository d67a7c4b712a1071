// Package worker provides a worker pool for converting many manual files
// in parallel.
package worker

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Job is one input file to convert.
type Job struct {
	Path  string
	Index int // position in the input list
}

// Result is the outcome of one job.
type Result struct {
	Job       Job
	Output    string // file written, if any
	ManualID  string // store id, if saved
	Plies     int    // main line length
	Duplicate bool   // main line seen in an earlier job
	Skipped   bool   // rejected by the filter
	Err       error
}

// ProcessFunc converts one job.
type ProcessFunc func(job Job) Result

// Pool runs jobs on a fixed number of goroutines.
type Pool struct {
	numWorkers int
	bufferSize int
	process    ProcessFunc
	jobs       chan Job
	results    chan Result
	wg         sync.WaitGroup
	stopped    atomic.Bool // set by Stop; later jobs are drained unprocessed
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a pool running process. Without options it has one
// worker and buffers ten jobs.
func NewPool(process ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{numWorkers: 1, bufferSize: 10, process: process}
	for _, opt := range opts {
		opt(p)
	}
	p.jobs = make(chan Job, p.bufferSize)
	p.results = make(chan Result, p.bufferSize)
	return p
}

// Start launches the workers.
func (p *Pool) Start() {
	p.wg.Add(p.numWorkers)
	for i := 0; i < p.numWorkers; i++ {
		go p.work()
	}
}

// work converts queued jobs until the queue is closed. After Stop the
// remaining jobs are received and dropped so Submit never blocks forever.
func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		if !p.IsStopped() {
			p.results <- p.process(job)
		}
	}
}

// Submit queues a job. It blocks while the buffer is full.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// TrySubmit queues a job without blocking. It returns false if the buffer
// is full or the pool is stopped.
func (p *Pool) TrySubmit(job Job) bool {
	if p.IsStopped() {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop makes workers skip the jobs still queued.
func (p *Pool) Stop() {
	p.stopped.Store(true)
}

// IsStopped reports whether Stop was called.
func (p *Pool) IsStopped() bool {
	return p.stopped.Load()
}

// Close closes the job queue and waits for the workers; the result channel
// is closed once they are done.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Results returns the result channel.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Run converts every path and returns the results in input order. With
// failFast the first error stops the jobs not yet started.
func Run(paths []string, process ProcessFunc, failFast bool, opts ...PoolOption) []Result {
	p := NewPool(process, opts...)
	p.Start()
	go func() {
		defer p.Close()
		for i, path := range paths {
			if p.IsStopped() {
				return
			}
			p.Submit(Job{Path: path, Index: i})
		}
	}()

	results := make([]Result, 0, len(paths))
	for r := range p.Results() {
		if failFast && r.Err != nil {
			p.Stop()
		}
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Job.Index < results[j].Job.Index })
	return results
}
