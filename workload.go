package atlasgen

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Workload is a batch of independent work units identified by index.
// Units must not share mutable state; completion order is unspecified.
type Workload struct {
	fn func(i int) bool
	n  int
}

// NewWorkload wraps n units of work. fn reports per-unit success and is
// called at most once per index.
func NewWorkload(n int, fn func(i int) bool) Workload {
	return Workload{fn: fn, n: n}
}

// Finish runs every unit on threadCount workers and blocks until all
// have completed. threadCount 0 uses one worker per available CPU. A
// failing unit never stops the others; Finish returns whether every
// unit succeeded.
func (w Workload) Finish(threadCount int) bool {
	if w.n <= 0 {
		return true
	}
	if threadCount <= 0 {
		threadCount = runtime.GOMAXPROCS(0)
	}
	threadCount = min(threadCount, w.n)
	if threadCount == 1 {
		ok := true
		for i := 0; i < w.n; i++ {
			if !w.fn(i) {
				ok = false
			}
		}
		return ok
	}

	var next atomic.Int64
	var failed atomic.Bool
	var wg sync.WaitGroup
	for t := 0; t < threadCount; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= w.n {
					return
				}
				if !w.fn(i) {
					failed.Store(true)
				}
			}
		}()
	}
	wg.Wait()
	return !failed.Load()
}
