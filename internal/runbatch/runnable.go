// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
)

// Runnable is something that can be run as part of a batch or handed to Dispatch:
// a single step or a whole job.
type Runnable interface {
	// Run executes the step or batch and returns the results.
	// It must honour context cancellation.
	Run(context.Context) Results
	// GetLabel returns the label of the step or batch.
	GetLabel() string
}

// cwdInheritor is implemented by runnables that take their working directory from the enclosing batch.
type cwdInheritor interface {
	InheritCwd(string)
}
