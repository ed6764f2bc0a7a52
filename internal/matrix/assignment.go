// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package matrix

import (
	"strings"

	"github.com/matt-FFFFFF/dockmatrix/internal/config"
	"github.com/matt-FFFFFF/dockmatrix/internal/tmpl"
)

// Pair is one variable bound to one of its values.
type Pair struct {
	Name  string
	Value string
}

// Assignment is one point of the matrix, in declared variable order.
type Assignment []Pair

// Values returns the assignment as template values.
func (a Assignment) Values() tmpl.Values {
	out := make(tmpl.Values, len(a))
	for _, p := range a {
		out[p.Name] = p.Value
	}

	return out
}

// Tag derives an image tag: the values joined with "-", lower-cased.
func (a Assignment) Tag() string {
	vals := make([]string, 0, len(a))
	for _, p := range a {
		vals = append(vals, p.Value)
	}

	return strings.ToLower(strings.Join(vals, "-"))
}

// String renders the assignment as {os: alpine, arch: amd64}.
func (a Assignment) String() string {
	sb := strings.Builder{}
	sb.WriteString("{")

	for i, p := range a {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(p.Value)
	}

	sb.WriteString("}")

	return sb.String()
}

// Product returns the cartesian product of vars in declared order, the last variable varying fastest.
// No variables yield a single empty assignment. A variable without values yields none.
func Product(vars config.Variables) []Assignment {
	size := 1
	for _, v := range vars {
		size *= len(v.Values)
	}

	out := make([]Assignment, 0, size)
	if size == 0 {
		return out
	}

	idx := make([]int, len(vars))

	for range size {
		a := make(Assignment, len(vars))
		for i, v := range vars {
			a[i] = Pair{Name: v.Name, Value: v.Values[idx[i]]}
		}

		out = append(out, a)

		// advance like an odometer, rightmost first
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(vars[i].Values) {
				break
			}

			idx[i] = 0
		}
	}

	return out
}
