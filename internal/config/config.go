// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultFile is the config file used when none is given.
	DefaultFile = "./spec.yml"
	// DefaultTool is the build tool invoked when the config does not name one.
	DefaultTool = "docker"
)

var (
	// ErrConfig is returned when a config field is missing or invalid.
	ErrConfig = errors.New("invalid configuration")
	// ErrFileNotFound is returned when the config file, the context directory or a recipe does not exist.
	ErrFileNotFound = errors.New("file not found")
)

// Config is the validated content of a matrix build file.
type Config struct {
	// Variables is the ordered matrix definition.
	Variables Variables `yaml:"variables"`
	// Recipe is a template for the recipe path, relative to Context.
	Recipe string `yaml:"recipe"`
	// Tag is an optional template for the image tag. Empty means derive it from the values.
	Tag string `yaml:"tag,omitempty"`
	// Registry to log in to before building, optional.
	Registry *Registry `yaml:"registry,omitempty"`
	// Context is the build context. After Load it is always an absolute directory.
	Context string `yaml:"context,omitempty"`
	// Parallel controls the worker pool.
	Parallel Parallel `yaml:"parallel"`
	// Push pushes every image after it is built.
	Push bool `yaml:"push"`
	// Run runs every image after it is built (and pushed).
	Run bool `yaml:"run"`
	// Tool is the build tool executable, looked up on PATH.
	Tool string `yaml:"tool,omitempty"`
	// BuildArgs are templates passed as --build-arg to every build.
	BuildArgs map[string]string `yaml:"build_args,omitempty"`
}

// Registry holds the optional login details.
type Registry struct {
	Host     string `yaml:"host"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Parse decodes YAML into a Config with defaults applied. It does not validate.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		Parallel: Parallel{Enabled: true},
		Tool:     DefaultTool,
	}

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}

	// `registry: {}` means no registry.
	if cfg.Registry != nil && *cfg.Registry == (Registry{}) {
		cfg.Registry = nil
	}

	return cfg, nil
}

// Validate checks every field the pipeline consumes and reports all problems at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Recipe == "" {
		result = multierror.Append(result, fmt.Errorf("%w: recipe is required", ErrConfig))
	}

	if c.Tool == "" {
		result = multierror.Append(result, fmt.Errorf("%w: tool is required", ErrConfig))
	}

	if err := c.Variables.Validate(); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Registry != nil {
		if err := c.Registry.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if c.Parallel.Enabled && c.Parallel.Workers < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: parallel must be a positive number of workers", ErrConfig))
	}

	for _, k := range slices.Sorted(maps.Keys(c.BuildArgs)) {
		if k == "" {
			result = multierror.Append(result, fmt.Errorf("%w: build_args contains an empty name", ErrConfig))
		}
	}

	return result.ErrorOrNil()
}

// Validate checks that host is set and that username and password are given together.
func (r *Registry) Validate() error {
	var result *multierror.Error

	if r.Host == "" {
		result = multierror.Append(result, fmt.Errorf("%w: no host set for registry", ErrConfig))
	}

	if (r.Username == "") != (r.Password == "") {
		result = multierror.Append(result, fmt.Errorf("%w: registry username and password must be set together", ErrConfig))
	}

	return result.ErrorOrNil()
}

// HasCredentials reports whether a username and password are configured.
func (r *Registry) HasCredentials() bool {
	return r.Username != "" && r.Password != ""
}

// LogValue implements slog.LogValuer and never exposes the password.
func (r *Registry) LogValue() slog.Value {
	pw := ""
	if r.Password != "" {
		pw = "[REDACTED]"
	}

	return slog.GroupValue(
		slog.String("host", r.Host),
		slog.String("username", r.Username),
		slog.String("password", pw),
	)
}
