// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"runtime"

	"github.com/goccy/go-yaml"
)

// NumCPU reports the worker count for `parallel: true`.
var NumCPU = runtime.NumCPU

// Parallel is the `parallel` field: a bool, or a positive worker count.
type Parallel struct {
	Enabled bool
	Workers int // zero with Enabled means one worker per CPU
}

// UnmarshalYAML accepts `true`, `false` or a positive integer.
func (p *Parallel) UnmarshalYAML(b []byte) error {
	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: parallel: %w", ErrConfig, err)
	}

	switch v := raw.(type) {
	case bool:
		*p = Parallel{Enabled: v}
	case uint64:
		if v == 0 {
			return fmt.Errorf("%w: parallel must be a positive number of workers", ErrConfig)
		}

		*p = Parallel{Enabled: true, Workers: int(v)}
	case int64:
		if v <= 0 {
			return fmt.Errorf("%w: parallel must be a positive number of workers", ErrConfig)
		}

		*p = Parallel{Enabled: true, Workers: int(v)}
	case int:
		if v <= 0 {
			return fmt.Errorf("%w: parallel must be a positive number of workers", ErrConfig)
		}

		*p = Parallel{Enabled: true, Workers: v}
	default:
		return fmt.Errorf("%w: parallel must be a boolean or a positive integer, got %v", ErrConfig, raw)
	}

	return nil
}

// MarshalYAML writes the same shape UnmarshalYAML reads.
func (p Parallel) MarshalYAML() (any, error) {
	if p.Enabled && p.Workers > 0 {
		return p.Workers, nil
	}

	return p.Enabled, nil
}

// WorkerCount maps the setting to a pool size. Zero means run sequentially.
func (p Parallel) WorkerCount() int {
	switch {
	case !p.Enabled:
		return 0
	case p.Workers > 0:
		return p.Workers
	default:
		return max(NumCPU(), 1)
	}
}
