// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/matt-FFFFFF/dockmatrix/internal/config"
	"github.com/matt-FFFFFF/dockmatrix/internal/console"
	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
	"github.com/matt-FFFFFF/dockmatrix/internal/pipeline"
	"github.com/matt-FFFFFF/dockmatrix/internal/runbatch"
	"github.com/matt-FFFFFF/dockmatrix/internal/tool"
)

const (
	configFlag               = "config"
	dryRunFlag               = "dry-run"
	logFormatFlag            = "log-format"
	outputStdErrFlag         = "output-stderr"
	outputStdOutFlag         = "output-stdout"
	outputSuccessDetailsFlag = "output-success-details"

	logFormatPretty = "pretty"
	logFormatJSON   = "json"
)

var (
	// Version is set during the build process.
	Version = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)

// newRunner builds the tool runner for the resolved executable.
var newRunner = func(path string) tool.Runner {
	return &tool.Exec{Path: path}
}

// RootCmd is the root command for the CLI.
var RootCmd = NewRootCmd()

// NewRootCmd returns a fresh root command.
func NewRootCmd() *cli.Command {
	return &cli.Command{
		Name:      "dockmatrix",
		Usage:     "build container images across a matrix of variables",
		UsageText: "dockmatrix [--config spec.yml] [--dry-run]",
		Description: `dockmatrix renders a templated Dockerfile for every combination of the configured
variables, then builds, optionally pushes and optionally runs each image, in parallel where
allowed. A failed image does not stop the others; the exit code is 1 when any of them failed.`,
		Version:   fmt.Sprintf("%s (%s)", Version, Commit),
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      configFlag,
				Aliases:   []string{"c"},
				Usage:     "Path to the matrix build file",
				Value:     config.DefaultFile,
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:  dryRunFlag,
				Usage: "Expand the matrix and print the commands without running anything",
			},
			&cli.StringFlag{
				Name:  logFormatFlag,
				Usage: "Log format, pretty or json",
				Value: logFormatPretty,
			},
			&cli.BoolFlag{
				Name:        outputSuccessDetailsFlag,
				Aliases:     []string{"success"},
				Usage:       "Include successful results in the output",
				DefaultText: "false",
			},
			&cli.BoolFlag{
				Name:        outputStdErrFlag,
				Aliases:     []string{"stderr"},
				Usage:       "Include stderr output in the results",
				Value:       true,
				DefaultText: "true",
			},
			&cli.BoolFlag{
				Name:        outputStdOutFlag,
				Aliases:     []string{"stdout"},
				Usage:       "Include stdout output in the results",
				DefaultText: "false",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	switch cmd.String(logFormatFlag) {
	case logFormatPretty:
	case logFormatJSON:
		ctx = ctxlog.New(ctx, ctxlog.JSONLogger)
	default:
		return cli.Exit(fmt.Sprintf("unknown log format %q, use %s or %s",
			cmd.String(logFormatFlag), logFormatPretty, logFormatJSON), 1)
	}

	dryRun := cmd.Bool(dryRunFlag)

	cfg, err := config.Load(ctx, cmd.String(configFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	exe, err := tool.Find(cfg.Tool)
	if err != nil {
		if !dryRun {
			return cli.Exit(errors.Join(config.ErrFileNotFound, err).Error(), 1)
		}

		ctxlog.Warn(ctx, "build tool not found, continuing with the dry run", "tool", cfg.Tool)
		exe = cfg.Tool
	}

	results, err := pipeline.Run(ctx, cfg, pipeline.Options{
		Runner: newRunner(exe),
		Exe:    cfg.Tool,
		Sink:   console.New(cmd.Writer),
		DryRun: dryRun,
	})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	opts := runbatch.DefaultOutputOptions()
	opts.IncludeStdErr = cmd.Bool(outputStdErrFlag)
	opts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
	opts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)

	if err := results.WriteWithOptions(cmd.Writer, opts); err != nil {
		return cli.Exit("failed to write results: "+err.Error(), 1)
	}

	if ctx.Err() != nil {
		return cli.Exit("run cancelled: "+ctx.Err().Error(), 1)
	}

	if err := results.Err(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}
