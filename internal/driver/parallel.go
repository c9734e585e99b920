package driver

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"hirlower/internal/trace"
)

// LowerPacks lowers every pack in paths in parallel. Results keep the order
// of paths. An error is returned only when ctx is done; per-pack failures
// live in the results.
func LowerPacks(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	span, ctx := trace.Start(ctx, trace.ScopeDriver, "lower_packs")
	span.Attr("packs", strconv.Itoa(len(paths)))
	defer span.End("")

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := LowerPack(gctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
