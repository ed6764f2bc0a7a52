// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package job

import (
	"context"
	"path/filepath"

	"github.com/matt-FFFFFF/dockmatrix/internal/console"
	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
	"github.com/matt-FFFFFF/dockmatrix/internal/runbatch"
	"github.com/matt-FFFFFF/dockmatrix/internal/tool"
)

const (
	stepWrite = "write recipe"
	stepBuild = "build"
	stepPush  = "push"
	stepRun   = "run"
)

// Executor carries out jobs. It is safe to use from several workers at once.
type Executor struct {
	Runner tool.Runner  // Runs the external tool
	Exe    string       // Tool name, for display
	Sink   console.Sink // Receives command echoes and outcomes
	DryRun bool         // Display the commands instead of running them
}

// Execute builds one job and, as configured, pushes and runs it.
// The first failing step ends the job, the remaining steps are reported as skipped.
// The temporary recipe file is always removed before Execute returns.
func (e *Executor) Execute(ctx context.Context, j *Job) (res *runbatch.Result) {
	ctx = ctxlog.New(ctx, ctxlog.Logger(ctx).With("tag", j.Tag))
	sink := e.sink()

	defer func() {
		if r := recover(); r != nil {
			ctxlog.Error(ctx, "job panicked", "panic", r)

			err := runbatch.NewErrPanic(r)
			sink.Display(console.LevelError, j.Tag, err.Error())

			res = &runbatch.Result{
				Label:    j.Tag,
				Status:   runbatch.ResultStatusError,
				ExitCode: -1,
				Error:    err,
			}
		}
	}()

	if e.DryRun {
		return e.plan(ctx, j)
	}

	path, err := writeRecipe(ctx, j.Context, j.Content)
	if err != nil {
		sink.Display(console.LevelError, j.Tag, err.Error())
		return failedBeforeBuild(j, err)
	}

	defer removeRecipe(ctx, path)

	batch := &runbatch.SerialBatch{
		BaseCommand: runbatch.NewBaseCommand(j.Tag, j.Context),
		Commands:    e.steps(j, path),
	}

	res = batch.Run(ctx)[0]
	res.Children = append(runbatch.Results{{Label: stepWrite, Status: runbatch.ResultStatusSuccess}}, res.Children...)

	return res
}

// Runnables adapts jobs for runbatch.Dispatch.
func (e *Executor) Runnables(jobs []*Job) []runbatch.Runnable {
	out := make([]runbatch.Runnable, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, &runnable{e: e, j: j})
	}

	return out
}

func (e *Executor) steps(j *Job, path string) []runbatch.Runnable {
	argvs := [][]string{tool.BuildArgs(path, j.Tag, j.BuildArgs)}
	if j.Push {
		argvs = append(argvs, tool.PushArgs(j.Tag))
	}

	if j.Run {
		argvs = append(argvs, tool.RunArgs(j.Tag))
	}

	out := make([]runbatch.Runnable, 0, len(argvs))
	for _, argv := range argvs {
		out = append(out, &runbatch.OSCommand{
			BaseCommand: runbatch.NewBaseCommand(argv[0], ""),
			Runner:      e.Runner,
			Exe:         e.Exe,
			Args:        argv,
			Sink:        e.sink(),
			Job:         j.Tag,
		})
	}

	return out
}

// plan displays what the job would run without touching the filesystem or the tool.
func (e *Executor) plan(ctx context.Context, j *Job) *runbatch.Result {
	sink := e.sink()
	path := filepath.Join(j.Context, tempPrefix+"<n>-<uuid>"+tempSuffix)

	steps := e.steps(j, path)
	cmds := make([]runbatch.Runnable, 0, len(steps))

	for _, s := range steps {
		osc := s.(*runbatch.OSCommand) //nolint:forcetypeassert

		cmds = append(cmds, &runbatch.FunctionCommand{
			BaseCommand: runbatch.NewBaseCommand(osc.Label, ""),
			Func: func(context.Context, string) error {
				sink.Display(console.LevelCommand, j.Tag, "(dry run) "+tool.CommandLine(osc.Exe, osc.Args))
				return nil
			},
		})
	}

	batch := &runbatch.SerialBatch{
		BaseCommand: runbatch.NewBaseCommand(j.Tag, j.Context),
		Commands:    cmds,
	}

	return batch.Run(ctx)[0]
}

func (e *Executor) sink() console.Sink {
	if e.Sink == nil {
		return console.Discard
	}

	return e.Sink
}

// failedBeforeBuild reports a job whose recipe could not be written.
func failedBeforeBuild(j *Job, err error) *runbatch.Result {
	children := runbatch.Results{{
		Label:    stepWrite,
		Status:   runbatch.ResultStatusError,
		ExitCode: -1,
		Error:    err,
	}}

	for _, s := range []struct {
		label string
		on    bool
	}{{stepBuild, true}, {stepPush, j.Push}, {stepRun, j.Run}} {
		if s.on {
			children = append(children, &runbatch.Result{
				Label:    s.label,
				Status:   runbatch.ResultStatusSkipped,
				ExitCode: -1,
				Error:    runbatch.ErrSkipOnError,
			})
		}
	}

	return &runbatch.Result{
		Label:    j.Tag,
		Status:   runbatch.ResultStatusError,
		ExitCode: -1,
		Error:    runbatch.ErrResultChildrenHasError,
		Children: children,
	}
}

type runnable struct {
	e *Executor
	j *Job
}

func (r *runnable) Run(ctx context.Context) runbatch.Results {
	return runbatch.Results{r.e.Execute(ctx, r.j)}
}

func (r *runnable) GetLabel() string {
	return r.j.Tag
}
