// Package pool provides the fixed, work-stealing-style worker pool the
// History Walker uses to parallelize per-file diff application within a
// single commit (spec.md §5). It is a thin wrapper around
// github.com/Jeffail/tunny, the same pool hercules's UAST extractor
// (uast.go, internal/plumbing/uast/uast.go) uses to fan CPU-bound,
// independent per-file work across a fixed number of goroutines.
package pool

import (
	"runtime"

	"github.com/Jeffail/tunny"
)

// Task is one unit of per-file work dispatched to the pool: derive a
// single file's new blame from its parent's. It returns either a result or
// an error; Pool.RunAll collects both.
type Task func() (interface{}, error)

// Pool fans Task values out across a fixed number of goroutines and
// collects their results in the caller's order, honoring spec.md §5's "no
// file is worked on by two tasks at once; no two commits' derivations
// overlap" rule by only ever being driven from the single walker
// goroutine between commit barriers.
type Pool struct {
	workers *tunny.Pool
}

// New creates a Pool sized to size goroutines, or runtime.NumCPU() if size
// is 0 (the same default hercules's UAST pool and its tunny.New call use).
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{}
	p.workers = tunny.NewFunc(size, func(payload interface{}) interface{} {
		task := payload.(Task)
		value, err := task()
		return taskResult{value: value, err: err}
	})
	return p
}

type taskResult struct {
	value interface{}
	err   error
}

// RunAll dispatches every task concurrently and blocks until all have
// completed, returning their results (or the first error encountered) in
// input order. This is the per-commit barrier spec.md §5 describes: "the
// only points at which the walker waits are (a) barrier at the end of
// each commit's per-file fan-out".
func (p *Pool) RunAll(tasks []Task) ([]interface{}, error) {
	results := make([]interface{}, len(tasks))
	errs := make([]error, len(tasks))
	done := make(chan int, len(tasks))
	for i, task := range tasks {
		go func(i int, task Task) {
			r := p.workers.Process(task).(taskResult)
			results[i] = r.value
			errs[i] = r.err
			done <- i
		}(i, task)
	}
	for range tasks {
		<-done
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Close releases the pool's goroutines.
func (p *Pool) Close() {
	p.workers.Close()
}
