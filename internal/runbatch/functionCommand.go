// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
)

var _ Runnable = (*FunctionCommand)(nil)

// ErrPanic is the error returned when a step panics.
// It is constructed with the value that caused the panic.
type ErrPanic struct {
	v any
}

// Error implements the error interface for ErrPanic.
func (e *ErrPanic) Error() string {
	prefix := "step panic:"

	switch x := e.v.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// Unwrap returns the panic value when it is an error.
func (e *ErrPanic) Unwrap() error {
	if err, ok := e.v.(error); ok {
		return err
	}

	return nil
}

// NewErrPanic creates a new ErrPanic with the given value.
func NewErrPanic(v any) error {
	return &ErrPanic{v: v}
}

// FunctionCommand is a step that runs a Go function, such as writing the rendered recipe.
// It implements the Runnable interface.
type FunctionCommand struct {
	*BaseCommand
	Func FunctionCommandFunc // The function to run
}

// FunctionCommandFunc is the type of the function that can be run by FunctionCommand.
// It receives the working directory of the step.
type FunctionCommandFunc func(ctx context.Context, workingDirectory string) error

// Run implements the Runnable interface for FunctionCommand.
func (f *FunctionCommand) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "FunctionCommand").
		With("label", f.GetLabel())

	if f.Func == nil {
		logger.Debug("no function to run, returning success")
		return Results{{Label: f.GetLabel(), Status: ResultStatusSuccess}}
	}

	errCh := make(chan error, 1)

	// Run the function in a goroutine so a cancelled context does not wait on it.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("function command panicked", "panic", r)
				errCh <- NewErrPanic(r)
			}
		}()

		errCh <- f.Func(ctx, f.GetCwd())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Debug("function command failed", "error", err)

			return Results{{
				Label:    f.GetLabel(),
				ExitCode: -1,
				Error:    err,
				Status:   ResultStatusError,
			}}
		}

	case <-ctx.Done():
		logger.Debug("function command context cancelled", "error", ctx.Err())

		return Results{{
			Label:    f.GetLabel(),
			ExitCode: -1,
			Error:    errors.Join(ErrSkipCancelled, ctx.Err()),
			Status:   ResultStatusError,
		}}
	}

	return Results{{Label: f.GetLabel(), Status: ResultStatusSuccess}}
}
