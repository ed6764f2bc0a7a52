// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"strings"
)

// BatchError aggregates the failed jobs of a run and formats a detailed error message.
type BatchError struct {
	FailedResults Results
}

func (e *BatchError) Error() string {
	sb := strings.Builder{}
	sb.WriteString("build failed for:")

	for _, r := range e.FailedResults {
		sb.WriteString(" ")
		sb.WriteString(r.Label)
	}

	return sb.String()
}

// Err returns a *BatchError naming every failed top-level result, or nil.
func (r Results) Err() error {
	var failed Results

	for _, v := range r {
		if v.Status == ResultStatusError || v.Children.HasError() {
			failed = append(failed, v)
		}
	}

	if len(failed) == 0 {
		return nil
	}

	return &BatchError{FailedResults: failed}
}
