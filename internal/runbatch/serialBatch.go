// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"slices"

	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
)

var _ Runnable = (*SerialBatch)(nil)

// SerialBatch represents a collection of steps, which are run serially.
// The first failing step stops the batch and the remaining steps are reported as skipped.
// Steps that already ran are not undone.
type SerialBatch struct {
	*BaseCommand
	Commands []Runnable // The steps or nested batches to run
}

// Run implements the Runnable interface for SerialBatch.
func (b *SerialBatch) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("label", b.GetLabel()).
		With("runnableType", "SerialBatch")

	results := make(Results, 0, len(b.Commands))

	var stopErr error

	for cmd := range slices.Values(b.Commands) {
		if stopErr == nil && ctx.Err() != nil {
			stopErr = errors.Join(ErrSkipCancelled, ctx.Err())
		}

		if stopErr != nil {
			logger.Debug("skipping step", "step", cmd.GetLabel(), "reason", stopErr)
			results = append(results, skipped(cmd.GetLabel(), stopErr))

			continue
		}

		if c, ok := cmd.(cwdInheritor); ok {
			c.InheritCwd(b.GetCwd())
		}

		childResults := cmd.Run(ctx)
		results = slices.Concat(results, childResults)

		if childResults.HasError() {
			stopErr = ErrSkipOnError
		}
	}

	res := &Result{
		Label:  b.GetLabel(),
		Status: ResultStatusSuccess,
	}

	switch {
	case results.HasError():
		res.ExitCode = -1
		res.Error = ErrResultChildrenHasError
		res.Status = ResultStatusError
	case len(results) > 0 && !slices.ContainsFunc(results, func(r *Result) bool {
		return r.Status != ResultStatusSkipped
	}):
		// nothing ran at all
		res.ExitCode = -1
		res.Error = results[0].Error
		res.Status = ResultStatusSkipped
	}

	res.Children = results

	return Results{res}
}
