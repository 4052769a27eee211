// Package batch lowers many TypeScript files concurrently.
package batch

import (
	"context"
	"fmt"

	"tslower/pkg/driver"
	"tslower/pkg/source"
)

const debugBatch = false

func debugPrintf(format string, args ...interface{}) {
	if debugBatch {
		fmt.Printf(format, args...)
	}
}

// Options control LowerFiles.
type Options struct {
	Workers int // zero means one per CPU
	// Write puts each file's JavaScript next to it with a .js extension.
	Write bool
}

// LowerFiles lowers every file in paths on a worker pool and returns one
// result per path, in the order given. Per-file failures are reported in
// the results; the returned error is only set when the batch itself could
// not run to completion.
func LowerFiles(ctx context.Context, paths []string, cfg *driver.Config, opts Options) ([]*Result, Stats, error) {
	pool := NewPool(opts.Workers, cfg)
	if err := pool.Start(ctx, len(paths)); err != nil {
		return nil, Stats{}, err
	}

	for i, p := range paths {
		job := &Job{Index: i, Path: p}
		if opts.Write {
			job.OutputPath = source.FromFile(p, "").OutputPath()
		}
		if err := pool.Submit(job); err != nil {
			_ = pool.Shutdown(ctx)
			return nil, pool.Stats(), err
		}
	}
	if err := pool.Shutdown(ctx); err != nil {
		return nil, pool.Stats(), err
	}

	results := make([]*Result, len(paths))
	for r := range pool.Results() {
		debugPrintf("// [Batch] worker %d finished %s in %v\n", r.WorkerID, r.Path, r.Duration)
		results[r.Index] = r
	}
	return results, pool.Stats(), nil
}
