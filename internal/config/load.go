// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
	"github.com/matt-FFFFFF/dockmatrix/internal/tmpl"
	"github.com/spf13/afero"
)

// DotEnvFile is read from the config file's directory, when present, before variables are expanded.
const DotEnvFile = ".env"

// FS is the filesystem config files are read from. Tests replace it with an in-memory one.
var FS = afero.NewOsFs()

// envRef matches an explicit ${NAME} reference. Any other $ is kept as written.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LookupEnv resolves ${VAR} references that are not in the .env file.
var LookupEnv = os.LookupEnv

// Load reads, expands and validates the config file at path.
// The context directory is resolved against the config file's directory and must exist.
func Load(ctx context.Context, path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Join(ErrFileNotFound, err)
	}

	data, err := afero.ReadFile(FS, abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file %q does not exist", ErrFileNotFound, path)
		}

		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(abs)

	env, err := readDotEnv(ctx, dir)
	if err != nil {
		return nil, err
	}

	cfg.expandEnv(env)

	if err := cfg.resolveContext(dir); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, name := range cfg.Variables.Names() {
		if !tmpl.BareForm(name) {
			ctxlog.Warn(ctx, "variable can only be referenced as {{ ."+name+" }}", "variable", name)
		}
	}

	ctxlog.Debug(ctx, "config loaded",
		"file", abs,
		"context", cfg.Context,
		"variables", cfg.Variables.Names(),
		"jobs", cfg.Variables.Size(),
		"registry", cfg.Registry)

	return cfg, nil
}

func readDotEnv(ctx context.Context, dir string) (map[string]string, error) {
	f, err := FS.Open(filepath.Join(dir, DotEnvFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to open %s: %w", DotEnvFile, err)
	}

	defer f.Close() //nolint:errcheck

	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfig, DotEnvFile, err)
	}

	ctxlog.Debug(ctx, "loaded dotenv file", "dir", dir, "keys", len(env))

	return env, nil
}

// expandEnv replaces ${VAR} in registry fields and build args. The .env file wins over the process environment.
func (c *Config) expandEnv(env map[string]string) {
	lookup := func(k string) string {
		if v, ok := env[k]; ok {
			return v
		}

		v, _ := LookupEnv(k)

		return v
	}

	expand := func(s string) string {
		return envRef.ReplaceAllStringFunc(s, func(m string) string {
			return lookup(envRef.FindStringSubmatch(m)[1])
		})
	}

	if c.Registry != nil {
		c.Registry.Host = expand(c.Registry.Host)
		c.Registry.Username = expand(c.Registry.Username)
		c.Registry.Password = expand(c.Registry.Password)
	}

	for k, v := range c.BuildArgs {
		c.BuildArgs[k] = expand(v)
	}
}

func (c *Config) resolveContext(configDir string) error {
	switch {
	case c.Context == "":
		c.Context = configDir
	case !filepath.IsAbs(c.Context):
		c.Context = filepath.Join(configDir, c.Context)
	}

	c.Context = filepath.Clean(c.Context)

	info, err := FS.Stat(c.Context)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: context %q is not a valid directory", ErrFileNotFound, c.Context)
	}

	return nil
}
