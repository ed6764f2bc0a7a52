// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package matrix

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/distribution/reference"
	"github.com/spf13/afero"

	"github.com/matt-FFFFFF/dockmatrix/internal/config"
	"github.com/matt-FFFFFF/dockmatrix/internal/console"
	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
	"github.com/matt-FFFFFF/dockmatrix/internal/job"
	"github.com/matt-FFFFFF/dockmatrix/internal/tmpl"
)

// FS is the filesystem recipes are read from.
var FS = afero.NewOsFs()

// Expander turns the matrix into jobs. The fields are copied onto every job.
type Expander struct {
	Push      bool
	Run       bool
	BuildArgs map[string]string // Templates, rendered per matrix point
	Sink      console.Sink      // Receives the Variation, Recipe and Tag of every point
}

// Expand renders recipe, tag and the build args for every point of the matrix and reads the recipe files.
// Either every job is returned or none: the first template or file error aborts the expansion.
// An empty tag template derives the tag from the values.
func (e *Expander) Expand(ctx context.Context, vars config.Variables, recipe, tag, contextDir string) ([]*job.Job, error) {
	points := Product(vars)
	jobs := make([]*job.Job, 0, len(points))
	seen := make(map[string]string, len(points))
	sink := e.Sink

	if sink == nil {
		sink = console.Discard
	}

	ctxlog.Debug(ctx, "expanding matrix", "points", len(points), "variables", vars.Names())

	for _, a := range points {
		j, err := e.expandOne(a, recipe, tag, contextDir)
		if err != nil {
			return nil, fmt.Errorf("matrix point %s: %w", a, err)
		}

		sink.Display(console.LevelInfo, "Variation", a.String())
		sink.Display(console.LevelInfo, "Recipe", j.Recipe)
		sink.Display(console.LevelInfo, "Tag", j.Tag)

		if prev, ok := seen[j.Tag]; ok {
			ctxlog.Warn(ctx, "two matrix points render the same tag, the later build overwrites the earlier image",
				"tag", j.Tag, "first", prev, "second", a.String())
		} else {
			seen[j.Tag] = a.String()
		}

		if _, err := reference.ParseNormalizedNamed(j.Tag); err != nil {
			ctxlog.Warn(ctx, "tag is not a valid image reference", "tag", j.Tag, "error", err)
		}

		jobs = append(jobs, j)
	}

	return jobs, nil
}

func (e *Expander) expandOne(a Assignment, recipe, tag, contextDir string) (*job.Job, error) {
	vals := a.Values()

	path, err := tmpl.Render("recipe", recipe, vals)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(contextDir, path)
	}

	path = filepath.Clean(path)

	t := a.Tag()
	if tag != "" {
		if t, err = tmpl.Render("tag", tag, vals); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	buildArgs := make(map[string]string, len(e.BuildArgs))
	for k, v := range maps.All(e.BuildArgs) {
		if buildArgs[k], err = tmpl.Render("build_args."+k, v, vals); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	body, err := afero.ReadFile(FS, path)

	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: recipe %s", config.ErrFileNotFound, path)
	case err != nil:
		return nil, fmt.Errorf("reading recipe %s: %w", path, err)
	}

	content, err := tmpl.Render(filepath.Base(path), string(body), vals)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &job.Job{
		Content:   content,
		Tag:       t,
		Context:   contextDir,
		Push:      e.Push,
		Run:       e.Run,
		BuildArgs: buildArgs,
		Recipe:    path,
		Variation: a.String(),
	}, nil
}
