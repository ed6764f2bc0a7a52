// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tool

import (
	"maps"
	"slices"
	"strings"
)

const redacted = "[REDACTED]"

// BuildArgs returns `build -f <file> -t <tag> [--build-arg k=v ...] .`.
// Build args are emitted in key order so the command line is reproducible.
func BuildArgs(file, tag string, buildArgs map[string]string) []string {
	argv := []string{"build", "-f", file, "-t", tag}

	for _, k := range slices.Sorted(maps.Keys(buildArgs)) {
		argv = append(argv, "--build-arg", k+"="+buildArgs[k])
	}

	return append(argv, ".")
}

// PushArgs returns `push <tag>`.
func PushArgs(tag string) []string {
	return []string{"push", tag}
}

// RunArgs returns `run --rm <tag>`.
func RunArgs(tag string) []string {
	return []string{"run", "--rm", tag}
}

// LoginArgs returns `login [-u <user> -p <pass>] <host>`.
// Without credentials the tool falls back to its credential helper or an interactive prompt.
func LoginArgs(host, username, password string) []string {
	argv := []string{"login"}
	if username != "" && password != "" {
		argv = append(argv, "-u", username, "-p", password)
	}

	return append(argv, host)
}

// Redact returns a copy of argv with password values masked.
func Redact(argv []string) []string {
	out := slices.Clone(argv)

	for i := 0; i < len(out); i++ {
		switch {
		case out[i] == "-p" || out[i] == "--password":
			if i+1 < len(out) {
				out[i+1] = redacted
				i++
			}
		case strings.HasPrefix(out[i], "--password="):
			out[i] = "--password=" + redacted
		}
	}

	return out
}

// CommandLine renders the executable and argv for display, redacted and shell-quoted.
func CommandLine(exe string, argv []string) string {
	parts := make([]string, 0, len(argv)+1)
	parts = append(parts, quote(exe))

	for _, a := range Redact(argv) {
		parts = append(parts, quote(a))
	}

	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return "''"
	}

	if !strings.ContainsAny(s, " \t\n'\"\\$`[]*?") {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
