// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/dockmatrix/internal/color"
)

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	IncludeStdOut      bool // Whether to include stdout in the output
	IncludeStdErr      bool // Whether to include stderr in the output
	ShowSuccessDetails bool // Whether to show details for successful steps
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdOut:      false,
		IncludeStdErr:      true,
		ShowSuccessDetails: false,
	}
}

// WriteResults writes the results as a status tree followed by a one-line summary.
func WriteResults(w io.Writer, results Results, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	if _, err := fmt.Fprintf(w, "===== Results =====\n\n"); err != nil {
		return err //nolint:wrapcheck
	}

	for _, r := range results {
		if err := writeResultWithIndent(w, r, "", options); err != nil {
			return err
		}
	}

	succeeded, failed, skipped := results.Counts()

	_, err := fmt.Fprintf(w, "\n%d succeeded, %d failed, %d skipped\n", succeeded, failed, skipped)

	return err //nolint:wrapcheck
}

func writeResultWithIndent(w io.Writer, r *Result, indent string, options *OutputOptions) error {
	var statusStr, labelPrefix string

	switch r.Status {
	case ResultStatusSkipped:
		statusStr = color.Colorize("~", color.FgYellow)
		labelPrefix = color.ControlString(color.Bold, color.FgYellow)
	case ResultStatusError:
		statusStr = color.Colorize("✗", color.FgRed)
		labelPrefix = color.ControlString(color.Bold, color.FgRed)
	case ResultStatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelPrefix = color.ControlString(color.Bold, color.FgGreen)
	default:
		statusStr = "?"
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	line := fmt.Sprintf("%s%s %s%s%s", indent, statusStr, labelPrefix, label, color.ControlString(color.Reset))

	// -1 means the tool never reported an exit code
	if r.ExitCode > 0 {
		line += fmt.Sprintf(" (exit code: %d)", r.ExitCode)
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err //nolint:wrapcheck
	}

	// ErrResultChildrenHasError is redundant with the children's own errors
	if r.Error != nil && !errors.Is(r.Error, ErrResultChildrenHasError) {
		errColor := color.FgRed
		if r.Status == ResultStatusSkipped {
			errColor = color.FgYellow
		}

		if _, err := fmt.Fprintf(w, "%s  %s %s\n", indent, color.Colorize("➜ Error:", errColor), r.Error.Error()); err != nil {
			return err //nolint:wrapcheck
		}
	}

	showDetails := (r.Status == ResultStatusError || options.ShowSuccessDetails) && len(r.Children) == 0

	if showDetails && options.IncludeStdOut && len(r.StdOut) > 0 {
		if _, err := fmt.Fprintf(w, "%s  ➜ Output:\n%s", indent, formatOutput(r.StdOut, indent+"     ")); err != nil {
			return err //nolint:wrapcheck
		}
	}

	if showDetails && options.IncludeStdErr && len(r.StdErr) > 0 {
		if _, err := fmt.Fprintf(w, "%s  %s\n%s",
			indent, color.Colorize("➜ Error Output:", color.FgHiRed), formatOutput(r.StdErr, indent+"     ")); err != nil {
			return err //nolint:wrapcheck
		}
	}

	for _, child := range r.Children {
		if err := writeResultWithIndent(w, child, indent+"  ", options); err != nil {
			return err
		}
	}

	return nil
}

// formatOutput indents every non-empty line of output.
func formatOutput(output []byte, indent string) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")

	sb := strings.Builder{}
	sb.Grow(len(output) + len(lines)*len(indent))

	for _, line := range lines {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
