// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"io"
	"os"
	"slices"
)

var (
	// ErrResultChildrenHasError is set on a batch result when one of its children failed.
	ErrResultChildrenHasError = errors.New("result has children with errors")
	// ErrSkipOnError is set on steps that were not run because an earlier step failed.
	ErrSkipOnError = errors.New("skip execution due to previous error")
	// ErrSkipCancelled is set on jobs and steps that were not started because the run was cancelled.
	ErrSkipCancelled = errors.New("skip execution due to cancellation")
)

// ResultStatus is the terminal state of a job or step.
type ResultStatus int

const (
	// ResultStatusSuccess means it ran and succeeded.
	ResultStatusSuccess ResultStatus = iota
	// ResultStatusError means it ran, or tried to, and failed.
	ResultStatusError
	// ResultStatusSkipped means it was never started.
	ResultStatusSkipped
)

// String implements fmt.Stringer.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result represents the outcome of running a job or one of its steps.
type Result struct {
	Label    string       // Label of the job (its tag) or the step
	Status   ResultStatus // Terminal state
	ExitCode int          // Exit code of the tool, -1 when it never ran to completion
	Error    error        // Error, if any
	StdOut   []byte       // Output from the tool
	StdErr   []byte       // Error output from the tool
	Children Results      // One result per step for a job
}

// Results is a slice of Result pointers, used to represent multiple results.
type Results []*Result

// HasError reports whether any result, or any of their children, failed.
// Skipped results do not count.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Status == ResultStatusError {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Counts returns how many top-level results succeeded, failed and were skipped.
func (r Results) Counts() (succeeded, failed, skipped int) {
	for v := range slices.Values(r) {
		switch v.Status {
		case ResultStatusSuccess:
			succeeded++
		case ResultStatusError:
			failed++
		case ResultStatusSkipped:
			skipped++
		}
	}

	return succeeded, failed, skipped
}

// Print outputs the results to stdout with default options.
func (r Results) Print() error {
	return WriteResults(os.Stdout, r, nil)
}

// Write outputs the results to the specified writer with default options.
func (r Results) Write(w io.Writer) error {
	return WriteResults(w, r, nil)
}

// WriteWithOptions outputs the results to the specified writer with the specified options.
func (r Results) WriteWithOptions(w io.Writer, options *OutputOptions) error {
	return WriteResults(w, r, options)
}

func skipped(label string, err error) *Result {
	return &Result{
		Label:    label,
		Status:   ResultStatusSkipped,
		ExitCode: -1,
		Error:    err,
	}
}
