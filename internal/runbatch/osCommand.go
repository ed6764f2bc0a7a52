// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/dockmatrix/internal/console"
	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
	"github.com/matt-FFFFFF/dockmatrix/internal/tool"
)

var _ Runnable = (*OSCommand)(nil)

// OSCommand is a single invocation of the external tool.
type OSCommand struct {
	*BaseCommand
	Runner tool.Runner  // Runs the tool
	Exe    string       // Executable name, for display only
	Args   []string     // Arguments to the tool, do not include the executable name itself
	Sink   console.Sink // Where the command echo and its outcome go, defaults to console.Discard
	Job    string       // Labels displayed output when set, e.g. with the image tag
}

// Run implements the Runnable interface for OSCommand.
// A panic in the runner is recovered into an error result.
func (c *OSCommand) Run(ctx context.Context) (results Results) {
	label := c.GetLabel()
	display := label
	sink := c.Sink

	if c.Job != "" {
		display = c.Job
	}

	if sink == nil {
		sink = console.Discard
	}

	logger := ctxlog.Logger(ctx).
		With("runnableType", "OSCommand").
		With("label", label)

	res := &Result{
		Label:    label,
		ExitCode: -1,
		Status:   ResultStatusError,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("command panicked", "panic", r)

			res.Error = NewErrPanic(r)
			res.Status = ResultStatusError
			sink.Display(console.LevelError, display, res.Error.Error())

			results = Results{res}
		}
	}()

	sink.Display(console.LevelCommand, display, tool.CommandLine(c.Exe, c.Args))

	out, err := c.Runner.Run(ctx, c.GetCwd(), c.Args...)
	if out != nil {
		res.StdOut = out.Stdout
		res.StdErr = out.Stderr
		res.ExitCode = out.ExitCode
	}

	if len(res.StdOut) > 0 {
		sink.Display(console.LevelInfo, display, strings.TrimRight(string(res.StdOut), "\n"))
	}

	if err != nil {
		logger.Debug("command failed", "error", err, "exitCode", res.ExitCode)

		res.Error = err
		sink.Display(console.LevelError, display, err.Error())

		return Results{res}
	}

	res.Status = ResultStatusSuccess
	sink.Display(console.LevelSuccess, display, fmt.Sprintf("%s succeeded", verb(c.Args)))

	return Results{res}
}

func verb(args []string) string {
	if len(args) == 0 {
		return "command"
	}

	return args[0]
}
