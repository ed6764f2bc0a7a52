// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/matt-FFFFFF/dockmatrix/internal/color"
	"github.com/matt-FFFFFF/dockmatrix/internal/config"
	"github.com/matt-FFFFFF/dockmatrix/internal/job"
	"github.com/matt-FFFFFF/dockmatrix/internal/matrix"
	"github.com/matt-FFFFFF/dockmatrix/internal/tool"
)

const specYAML = `variables:
  os: [alpine, debian]
recipe: Dockerfile
parallel: 2
`

type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	fail  string
}

func (f *fakeRunner) Run(_ context.Context, _ string, argv ...string) (*tool.Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, argv)
	f.mu.Unlock()

	if f.fail != "" && slices.Contains(argv, f.fail) {
		return &tool.Output{ExitCode: 1, Stderr: []byte("failed")},
			fmt.Errorf("%w: %s (exit code: 1): failed", tool.ErrProcess, argv[0])
	}

	return &tool.Output{}, nil
}

type env struct {
	runner *fakeRunner
	out    *bytes.Buffer
}

func setup(t *testing.T, withTool bool, files map[string]string) *env {
	t.Helper()

	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })

	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}

	if withTool {
		require.NoError(t, afero.WriteFile(fs, "/usr/bin/docker", nil, 0o755))
	}

	e := &env{runner: &fakeRunner{}, out: &bytes.Buffer{}}

	stubs := gostub.Stub(&config.FS, fs)
	stubs.Stub(&config.LookupEnv, func(string) (string, bool) { return "", false })
	stubs.Stub(&matrix.FS, fs)
	stubs.Stub(&job.FS, fs)
	stubs.Stub(&tool.FS, fs)
	stubs.Stub(&tool.Getenv, func(string) string { return "/usr/bin" })
	stubs.Stub(&newRunner, func(string) tool.Runner { return e.runner })
	t.Cleanup(stubs.Reset)

	return e
}

func (e *env) run(args ...string) error {
	root := NewRootCmd()
	root.Writer = e.out
	root.ErrWriter = &bytes.Buffer{}
	root.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	return root.Run(context.Background(), append([]string{"dockmatrix"}, args...))
}

func requireExit(t *testing.T, err error) {
	t.Helper()

	var ec cli.ExitCoder

	require.ErrorAs(t, err, &ec)
	assert.Equal(t, 1, ec.ExitCode())
}

func TestRoot_Success(t *testing.T) {
	e := setup(t, true, map[string]string{
		"/work/spec.yml":   specYAML,
		"/work/Dockerfile": "FROM {{ os }}\n",
	})

	require.NoError(t, e.run("-c", "/work/spec.yml"))

	out := e.out.String()
	assert.Contains(t, out, "Variation:\t{os: alpine}")
	assert.Contains(t, out, "docker build -f /work/.dockmatrix-")
	assert.Contains(t, out, "✓ alpine")
	assert.Contains(t, out, "✓ debian")
	assert.Contains(t, out, "2 succeeded, 0 failed, 0 skipped")
	assert.Len(t, e.runner.calls, 2)
}

func TestRoot_JobFailureExitsNonZero(t *testing.T) {
	e := setup(t, true, map[string]string{
		"/work/spec.yml":   specYAML,
		"/work/Dockerfile": "FROM {{ os }}\n",
	})
	e.runner.fail = "debian"

	err := e.run("--config", "/work/spec.yml")
	requireExit(t, err)
	assert.Contains(t, err.Error(), "debian")
	assert.Contains(t, e.out.String(), "1 succeeded, 1 failed, 0 skipped")
}

func TestRoot_MissingConfig(t *testing.T) {
	e := setup(t, true, nil)

	err := e.run("-c", "/work/spec.yml")
	requireExit(t, err)
	assert.Contains(t, err.Error(), config.ErrFileNotFound.Error())
	assert.Empty(t, e.runner.calls)
}

func TestRoot_MissingTool(t *testing.T) {
	e := setup(t, false, map[string]string{
		"/work/spec.yml":   specYAML,
		"/work/Dockerfile": "FROM {{ os }}\n",
	})

	err := e.run("-c", "/work/spec.yml")
	requireExit(t, err)
	assert.Contains(t, err.Error(), "docker")
	assert.Empty(t, e.runner.calls)
}

func TestRoot_DryRunWithoutTool(t *testing.T) {
	e := setup(t, false, map[string]string{
		"/work/spec.yml":   specYAML,
		"/work/Dockerfile": "FROM {{ os }}\n",
	})

	require.NoError(t, e.run("-c", "/work/spec.yml", "--dry-run"))
	assert.Empty(t, e.runner.calls)
	assert.Contains(t, e.out.String(), "(dry run) docker build")
}

func TestRoot_MissingRecipe(t *testing.T) {
	e := setup(t, true, map[string]string{"/work/spec.yml": specYAML})

	err := e.run("-c", "/work/spec.yml")
	requireExit(t, err)
	assert.Contains(t, err.Error(), "recipe")
	assert.Empty(t, e.runner.calls)
}

func TestRoot_BadLogFormat(t *testing.T) {
	e := setup(t, true, nil)

	err := e.run("--log-format", "xml")
	requireExit(t, err)
	assert.Contains(t, err.Error(), "xml")
}
