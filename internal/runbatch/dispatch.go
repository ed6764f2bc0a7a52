// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
)

// Dispatch runs every runnable and returns their results in input order.
//
// With workers <= 0 the runnables are run one after another on the calling goroutine.
// Otherwise exactly that many workers take runnables from a shared queue.
// A failing runnable never stops the others. Once ctx is cancelled no further runnables
// are started and those are reported as skipped.
func Dispatch(ctx context.Context, runnables []Runnable, workers int) Results {
	logger := ctxlog.Logger(ctx).With("jobs", len(runnables), "workers", workers)

	slots := make([]Results, len(runnables))

	if workers <= 0 {
		logger.Debug("dispatching sequentially")

		for i, r := range runnables {
			if ctx.Err() != nil {
				break
			}

			slots[i] = r.Run(ctx)
		}

		return collect(ctx, runnables, slots)
	}

	logger.Debug("dispatching to worker pool")

	queue := make(chan int)
	g := &errgroup.Group{}

	g.Go(func() error {
		defer close(queue)

		for i := range runnables {
			select {
			case queue <- i:
			case <-ctx.Done():
				return nil
			}
		}

		return nil
	})

	for range workers {
		g.Go(func() error {
			for i := range queue {
				if ctx.Err() != nil {
					continue
				}

				// each slot is written by exactly one worker
				slots[i] = runnables[i].Run(ctx)
			}

			return nil
		})
	}

	_ = g.Wait()

	return collect(ctx, runnables, slots)
}

// collect flattens the per-runnable slots, filling the gaps left by cancellation.
func collect(ctx context.Context, runnables []Runnable, slots []Results) Results {
	out := make(Results, 0, len(slots))

	for i, s := range slots {
		if s == nil {
			out = append(out, skipped(runnables[i].GetLabel(), errors.Join(ErrSkipCancelled, ctx.Err())))
			continue
		}

		out = slices.Concat(out, s)
	}

	return out
}
