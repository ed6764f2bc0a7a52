// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline runs a loaded configuration end to end:
// registry login, matrix expansion, tag rewriting and dispatch of the jobs.
package pipeline

import (
	"context"

	"github.com/matt-FFFFFF/dockmatrix/internal/config"
	"github.com/matt-FFFFFF/dockmatrix/internal/console"
	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
	"github.com/matt-FFFFFF/dockmatrix/internal/job"
	"github.com/matt-FFFFFF/dockmatrix/internal/matrix"
	"github.com/matt-FFFFFF/dockmatrix/internal/registry"
	"github.com/matt-FFFFFF/dockmatrix/internal/runbatch"
	"github.com/matt-FFFFFF/dockmatrix/internal/tool"
)

// Options are the run-time inputs that do not come from the config file.
type Options struct {
	Runner tool.Runner  // Runs the build tool
	Exe    string       // Tool name, for display; defaults to cfg.Tool
	Sink   console.Sink // User-facing output
	DryRun bool         // Expand and display only, nothing is logged in to, written or built
}

// Run executes cfg and returns one result per job, in matrix order.
//
// Errors are returned only for problems that stop the run before any job starts: an invalid registry,
// a template error or a missing recipe. Failed jobs are reported in the results.
func Run(ctx context.Context, cfg *config.Config, opts Options) (runbatch.Results, error) {
	if opts.Sink == nil {
		opts.Sink = console.Discard
	}

	if opts.Exe == "" {
		opts.Exe = cfg.Tool
	}

	host, err := login(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	expander := &matrix.Expander{
		Push:      cfg.Push,
		Run:       cfg.Run,
		BuildArgs: cfg.BuildArgs,
		Sink:      opts.Sink,
	}

	jobs, err := expander.Expand(ctx, cfg.Variables, cfg.Recipe, cfg.Tag, cfg.Context)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	for i, j := range jobs {
		jobs[i] = j.WithRegistryHost(host)
	}

	executor := &job.Executor{
		Runner: opts.Runner,
		Exe:    opts.Exe,
		Sink:   opts.Sink,
		DryRun: opts.DryRun,
	}

	workers := cfg.Parallel.WorkerCount()

	ctxlog.Info(ctx, "dispatching jobs", "jobs", len(jobs), "workers", workers, "dryRun", opts.DryRun)

	return runbatch.Dispatch(ctx, executor.Runnables(jobs), workers), nil
}

func login(ctx context.Context, cfg *config.Config, opts Options) (string, error) {
	if !opts.DryRun {
		auth := &registry.Authenticator{Runner: opts.Runner, Exe: opts.Exe, Sink: opts.Sink}
		return auth.Login(ctx, cfg.Registry)
	}

	if cfg.Registry == nil {
		return "", nil
	}

	if err := cfg.Registry.Validate(); err != nil {
		return "", err //nolint:wrapcheck
	}

	opts.Sink.Display(console.LevelCommand, cfg.Registry.Host,
		"(dry run) "+tool.CommandLine(opts.Exe, tool.LoginArgs(cfg.Registry.Host, cfg.Registry.Username, cfg.Registry.Password)))

	return cfg.Registry.Host, nil
}
