// Package fanout provides the two coarse-grained parallel-iterator points
// the scanning engine needs: fanning out across the filters of one
// snapshot region, and fanning out across the page-bounded sub-reads (and
// their 16 KiB chunks) of one region's memory refresh. Neither point needs
// anything fancier than a bounded worker pool, and nothing in the
// retrieved corpus imports a fan-out helper library (no errgroup, no
// conc, no ants) -- see DESIGN.md for why this one piece of glue is
// stdlib-only sync.WaitGroup rather than a third-party dependency.
package fanout

import (
	"runtime"
	"sync"
)

// Do runs fn(i) for i in [0, n) using up to GOMAXPROCS goroutines at once,
// and waits for all of them to finish. If single is true, it runs them
// sequentially on the calling goroutine instead -- the debug "single
// thread" mode the dispatcher supports.
func Do(n int, single bool, fn func(i int)) {
	if n <= 0 {
		return
	}
	if single || n == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	indices := make(chan int)
	go func() {
		defer close(indices)
		for i := 0; i < n; i++ {
			indices <- i
		}
	}()

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(i)
			}
		}()
	}
	wg.Wait()
}

// DoSlice is a type-safe convenience wrapper around Do for processing a
// slice in parallel, collecting one result per input via out[i] = f(in[i]).
func DoSlice[T any, R any](in []T, single bool, f func(T) R) []R {
	out := make([]R, len(in))
	Do(len(in), single, func(i int) {
		out[i] = f(in[i])
	})
	return out
}
