// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/matt-FFFFFF/dockmatrix/internal/config"
	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
)

const (
	tempPrefix = ".dockmatrix-"
	tempSuffix = ".Dockerfile"
	tempPerm   = 0o600
)

var (
	// ErrFileCollision is returned when the temporary recipe file already exists.
	ErrFileCollision = errors.New("temporary recipe file already exists")
	// ErrPermission is returned when the temporary recipe file cannot be created.
	ErrPermission = errors.New("permission denied writing temporary recipe file")
)

// FS is the filesystem the temporary recipe files are written to.
var FS = afero.NewOsFs()

var counter atomic.Uint64

// TempName returns the name of the next temporary recipe file.
// Names are unique within the process through the counter and across processes through the uuid.
var TempName = func() string {
	return tempPrefix + strconv.FormatUint(counter.Add(1), 10) + "-" + uuid.NewString() + tempSuffix
}

// writeRecipe atomically creates a new file in dir holding content and returns its path.
// Nothing is left behind when it fails.
func writeRecipe(ctx context.Context, dir, content string) (string, error) {
	info, err := FS.Stat(dir)

	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("%w: build context %s", config.ErrFileNotFound, dir)
	case err != nil:
		return "", classify(err)
	case !info.IsDir():
		return "", fmt.Errorf("%w: build context %s is not a directory", config.ErrFileNotFound, dir)
	}

	path := filepath.Join(dir, TempName())

	f, err := FS.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, tempPerm)
	if err != nil {
		return "", classify(err)
	}

	ctxlog.Debug(ctx, "created temporary recipe", "path", path)

	_, werr := f.WriteString(content)
	cerr := f.Close()

	if err := errors.Join(werr, cerr); err != nil {
		removeRecipe(ctx, path)
		return "", classify(err)
	}

	return path, nil
}

func removeRecipe(ctx context.Context, path string) {
	if err := FS.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		ctxlog.Warn(ctx, "could not remove temporary recipe", "path", path, "error", err)
		return
	}

	ctxlog.Debug(ctx, "removed temporary recipe", "path", path)
}

func classify(err error) error {
	switch {
	case errors.Is(err, os.ErrExist):
		return errors.Join(ErrFileCollision, err)
	case errors.Is(err, os.ErrPermission):
		return errors.Join(ErrPermission, err)
	default:
		return err //nolint:wrapcheck
	}
}
