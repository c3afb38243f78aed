// Package batch runs per-item work either in order or on a bounded pool,
// always writing outputs into the caller's indexed slots.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run calls fn for every index in [0, n). With limit <= 1 the calls happen
// sequentially in index order; otherwise at most limit run at once. fn must
// only write to its own slot. Items not started before ctx is cancelled are
// still passed to fn so every slot is filled.
func Run(ctx context.Context, n, limit int, fn func(ctx context.Context, i int)) {
	if limit <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(ctx, i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}
