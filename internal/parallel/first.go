// Package parallel runs candidate searches either in order or concurrently
// while keeping the outcome deterministic: the lowest matching index wins.
package parallel

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// NotFound is returned by First when no candidate matches.
const NotFound = -1

// First evaluates fn for candidates [0,n) and returns the lowest index for
// which fn reported true. In parallel mode at most workers candidates run at
// once (unbounded when workers <= 0) and the outcome is the one a sequential
// scan would produce: the lowest index that either matched or failed with an
// error decides. Candidates above an already decided index are skipped.
func First(ctx context.Context, n int, concurrent bool, workers int, fn func(ctx context.Context, i int) (bool, error)) (int, error) {
	if n <= 0 {
		return NotFound, nil
	}
	if !concurrent || n == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return NotFound, err
			}
			ok, err := fn(ctx, i)
			if err != nil {
				return NotFound, err
			}
			if ok {
				return i, nil
			}
		}
		return NotFound, nil
	}

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}

	var mu sync.Mutex
	decided := NotFound
	errs := make([]error, n)
	below := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return decided == NotFound || i < decided
	}

	for i := 0; i < n; i++ {
		if !below(i) {
			break
		}
		g.Go(func() error {
			if !below(i) || ctx.Err() != nil {
				return nil
			}
			ok, err := fn(ctx, i)
			if !ok && err == nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			errs[i] = err
			if decided == NotFound || i < decided {
				decided = i
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return NotFound, err
	}
	if decided == NotFound {
		return NotFound, nil
	}
	if errs[decided] != nil {
		return NotFound, errs[decided]
	}
	return decided, nil
}
