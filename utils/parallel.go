package utils

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// IndexedFunc is the unit of work for ForEachParallel.
type IndexedFunc func(ctx context.Context, idx int) error

// ForEachParallel calls f for every index in [0, n) with at most limit calls in
// flight (ParallelFactor when limit <= 0). A failing or panicking call does not
// stop the others; all failures are combined into the returned error. Only
// cancellation of ctx stops scheduling new work.
func ForEachParallel(ctx context.Context, n, limit int, f IndexedFunc) error {
	if limit <= 0 {
		limit = ParallelFactor
	}

	var bigError error
	var bigErrorMutex sync.Mutex
	storeError := func(err error) {
		bigErrorMutex.Lock()
		defer bigErrorMutex.Unlock()
		bigError = multierr.Combine(bigError, err)
	}

	helper := func(idx int) {
		defer func() {
			if thePanic := recover(); thePanic != nil {
				storeError(NewPanicError(thePanic))
			}
		}()
		if err := f(ctx, idx); err != nil {
			storeError(err)
		}
	}

	var group errgroup.Group
	group.SetLimit(limit)
	for idx := 0; idx < n; idx++ {
		if err := ctx.Err(); err != nil {
			storeError(err)
			break
		}
		idx := idx
		group.Go(func() error {
			helper(idx)
			return nil
		})
	}
	//nolint:errcheck
	group.Wait()
	return bigError
}
