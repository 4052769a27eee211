package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"

	"tslower/pkg/batch"
	"tslower/pkg/driver"
	"tslower/pkg/errors"
)

// isBatch reports whether args name more than one file or any directory.
func isBatch(args []string) bool {
	if len(args) > 1 {
		return true
	}
	if len(args) == 1 && args[0] != "-" {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func lowerBatch(args []string, cfg *driver.Config, workers int) int {
	paths, err := batch.Discover(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no .ts files found")
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, stats, err := batch.LowerFiles(ctx, paths, cfg, batch.Options{Workers: workers, Write: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInternal
	}

	code := 0
	for _, r := range results {
		var diags []errors.Diagnostic
		if de, ok := r.Err.(*driver.DiagnosticsError); ok {
			diags = de.Diagnostics
		} else if r.Err != nil {
			fmt.Fprintln(os.Stderr, r.Err)
			code = exitInternal
			continue
		} else {
			diags = r.Diagnostics
		}
		if len(diags) > 0 {
			if src, err := driver.ReadSource(r.Path); err == nil {
				fmt.Fprintf(os.Stderr, "%s:\n", r.Path)
				display(src, diags)
			}
		}
		if r.Failed() {
			if code == 0 {
				code = exitInput
			}
			continue
		}
		fmt.Printf("JavaScript code written to %s\n", r.OutputPath)
	}
	fmt.Printf("lowered %d of %d files (%s) in %v\n",
		stats.CompletedJobs, stats.TotalJobs, humanize.Bytes(uint64(stats.BytesWritten)), stats.TotalTime)
	return code
}
