// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package job

import (
	"maps"
)

// Job is one point of the matrix, ready to be built.
// It is created by the expander and not modified afterwards.
type Job struct {
	Content   string            // Rendered recipe
	Tag       string            // Image tag
	Context   string            // Absolute build context directory
	Push      bool              // Push the image after building it
	Run       bool              // Run the image after building (and pushing) it
	BuildArgs map[string]string // Rendered --build-arg values
	Recipe    string            // Resolved recipe path, for display
	Variation string            // The matrix point, for display
}

// WithRegistryHost returns a copy of the job tagged for host, i.e. "<host>/<tag>".
// An empty host returns the job unchanged.
func (j *Job) WithRegistryHost(host string) *Job {
	if host == "" {
		return j
	}

	c := *j
	c.Tag = host + "/" + j.Tag
	c.BuildArgs = maps.Clone(j.BuildArgs)

	return &c
}
