// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is returned when the tool executable cannot be found.
var ErrNotFound = errors.New("executable not found")

var (
	// FS is the filesystem searched by Find.
	FS = afero.NewOsFs()
	// Getenv reads PATH for Find.
	Getenv = os.Getenv
)

// Find resolves name to an executable path. Names containing a path separator are checked as given,
// anything else is searched for on PATH.
func Find(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrNotFound)
	}

	if strings.ContainsRune(name, filepath.Separator) {
		if isExecutable(name) {
			return name, nil
		}

		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	candidates := []string{name}
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		candidates = append(candidates, name+".exe")
	}

	for _, dir := range filepath.SplitList(Getenv("PATH")) {
		if dir == "" {
			continue
		}

		for _, c := range candidates {
			p := filepath.Join(dir, c)
			if isExecutable(p) {
				return p, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s not found in PATH", ErrNotFound, name)
}

func isExecutable(p string) bool {
	info, err := FS.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}

	if runtime.GOOS == "windows" {
		return true
	}

	return info.Mode()&0o111 != 0
}
