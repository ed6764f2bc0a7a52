// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`recipe: Dockerfile`))
	require.NoError(t, err)

	assert.Equal(t, "Dockerfile", cfg.Recipe)
	assert.Equal(t, Parallel{Enabled: true}, cfg.Parallel)
	assert.False(t, cfg.Push)
	assert.False(t, cfg.Run)
	assert.Equal(t, DefaultTool, cfg.Tool)
	assert.Nil(t, cfg.Registry)
	assert.Empty(t, cfg.Variables)
	assert.Equal(t, 1, cfg.Variables.Size())
}

func TestParse_EmptyRegistryIsNoRegistry(t *testing.T) {
	cfg, err := Parse([]byte("recipe: Dockerfile\nregistry: {}\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Registry)
	require.NoError(t, cfg.Validate())
}

func TestParse_VariablesKeepOrder(t *testing.T) {
	cfg, err := Parse([]byte(`
variables:
  os: [alpine, debian]
  arch:
    - amd64
    - arm64
  python: [3.11, 3.12, 3]
  debug: [true]
recipe: "{{ os }}/Dockerfile"
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"os", "arch", "python", "debug"}, cfg.Variables.Names())
	assert.Equal(t, []string{"alpine", "debian"}, cfg.Variables[0].Values)
	assert.Equal(t, []string{"amd64", "arm64"}, cfg.Variables[1].Values)
	assert.Equal(t, []string{"3.11", "3.12", "3"}, cfg.Variables[2].Values)
	assert.Equal(t, []string{"true"}, cfg.Variables[3].Values)
	assert.Equal(t, 2*2*3*1, cfg.Variables.Size())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "scalar variable", yaml: "variables:\n  os: alpine\nrecipe: x"},
		{name: "nested variable", yaml: "variables:\n  os: [[a]]\nrecipe: x"},
		{name: "unknown field", yaml: "recipe: x\nrecepie: y"},
		{name: "parallel zero", yaml: "recipe: x\nparallel: 0"},
		{name: "parallel negative", yaml: "recipe: x\nparallel: -2"},
		{name: "parallel string", yaml: "recipe: x\nparallel: lots"},
		{name: "not yaml", yaml: "recipe: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestParallel(t *testing.T) {
	defer gostub.Stub(&NumCPU, func() int { return 6 }).Reset()

	tests := []struct {
		yaml    string
		want    Parallel
		workers int
	}{
		{yaml: "recipe: x\nparallel: true", want: Parallel{Enabled: true}, workers: 6},
		{yaml: "recipe: x\nparallel: false", want: Parallel{}, workers: 0},
		{yaml: "recipe: x\nparallel: 3", want: Parallel{Enabled: true, Workers: 3}, workers: 3},
		{yaml: "recipe: x", want: Parallel{Enabled: true}, workers: 6},
	}

	for _, tt := range tests {
		t.Run(tt.yaml, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Parallel)
			assert.Equal(t, tt.workers, cfg.Parallel.WorkerCount())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "minimal",
			cfg:  Config{Recipe: "Dockerfile", Tool: "docker"},
		},
		{
			name:    "missing recipe",
			cfg:     Config{Tool: "docker"},
			wantErr: true,
		},
		{
			name: "registry without host",
			cfg: Config{Recipe: "Dockerfile", Tool: "docker", Registry: &Registry{
				Username: "u", Password: "p",
			}},
			wantErr: true,
		},
		{
			name: "username without password",
			cfg: Config{Recipe: "Dockerfile", Tool: "docker", Registry: &Registry{
				Host: "r.example.com", Username: "u",
			}},
			wantErr: true,
		},
		{
			name: "password without username",
			cfg: Config{Recipe: "Dockerfile", Tool: "docker", Registry: &Registry{
				Host: "r.example.com", Password: "p",
			}},
			wantErr: true,
		},
		{
			name: "registry host only",
			cfg:  Config{Recipe: "Dockerfile", Tool: "docker", Registry: &Registry{Host: "r.example.com"}},
		},
		{
			name: "variable name with dash",
			cfg: Config{Recipe: "Dockerfile", Tool: "docker", Variables: Variables{
				{Name: "base-image", Values: []string{"a"}},
			}},
			wantErr: true,
		},
		{
			name: "variable named like a template builtin",
			cfg: Config{Recipe: "Dockerfile", Tool: "docker", Variables: Variables{
				{Name: "index", Values: []string{"a"}},
				{Name: "range", Values: []string{"b"}},
			}},
		},
		{
			name: "variable without values",
			cfg: Config{Recipe: "Dockerfile", Tool: "docker", Variables: Variables{
				{Name: "os", Values: nil},
			}},
			wantErr: true,
		},
		{
			name: "duplicate variable",
			cfg: Config{Recipe: "Dockerfile", Tool: "docker", Variables: Variables{
				{Name: "os", Values: []string{"a"}},
				{Name: "os", Values: []string{"b"}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Config{Registry: &Registry{Username: "u"}}

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "recipe is required")
	assert.Contains(t, msg, "tool is required")
	assert.Contains(t, msg, "no host set for registry")
	assert.Contains(t, msg, "username and password must be set together")
}

func TestRegistry_LogValueRedactsPassword(t *testing.T) {
	r := &Registry{Host: "r.example.com", Username: "ci", Password: "hunter2"}
	assert.NotContains(t, r.LogValue().String(), "hunter2")
	assert.Contains(t, r.LogValue().String(), "[REDACTED]")
}
