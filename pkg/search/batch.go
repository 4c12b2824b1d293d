package search

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SearchBatch runs Search for every query and returns the results in query
// order. At most BatchWorkers searches run at once. If ctx is cancelled
// before all queries ran, the context error is returned.
func (e *Engine) SearchBatch(ctx context.Context, queries []string, opts ...Option) ([][]Match, error) {
	return e.searchBatch(ctx, e.BatchWorkers(), queries, opts...)
}

// BatchWorkers returns the parallelism of SearchBatch, GOMAXPROCS unless
// set with WithBatchWorkers.
func (e *Engine) BatchWorkers() int {
	if e.workers > 0 {
		return e.workers
	}
	return runtime.GOMAXPROCS(0)
}

// WithBatchWorkers returns a copy of e sharing its index whose SearchBatch
// runs at most n searches at once. n <= 0 restores the default.
func (e *Engine) WithBatchWorkers(n int) *Engine {
	cp := *e
	cp.workers = n
	return &cp
}

func (e *Engine) searchBatch(ctx context.Context, workers int, queries []string, opts ...Option) ([][]Match, error) {
	results := make([][]Match, len(queries))
	if len(queries) == 0 {
		return results, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, q := range queries {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Search(q, opts...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
